package orm

import (
	"reflect"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Model is an entity that a bucket can store.
type Model interface {
	weave.Persistent
	Validate() error
	Copy() Model
}

// Object binds a model to the key it is stored under. The key is relative
// to the bucket.
type Object interface {
	Keyed
	Cloneable
	Validate() error
	Value() weave.Persistent
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same kind, that a serialized
// value can be loaded into.
type Cloneable interface {
	Clone() Object
}

// SimpleObj is the Object used for all models.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

func (o SimpleObj) Value() weave.Persistent {
	return o.value
}

// Validate requires both the key and a valid value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone keeps the key but not the value. The new value is a zero instance
// of the same model type.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	c := &SimpleObj{value: model}
	if len(o.key) != 0 {
		c.key = append([]byte(nil), o.key...)
	}
	return c
}
