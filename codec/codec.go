/*
Package codec serializes models, messages and transactions in the protobuf
wire format using gogo/protobuf.

A structure declares its wire layout with protobuf struct tags, the same
tags protoc-gen-gogo writes into generated code. gogo/protobuf calls back
the Marshal method of any structure that has one, so a model that provides
Marshal and Unmarshal itself encodes through a method-less type defined on
top of it:

	type wireToken Token

	func (m *wireToken) Reset()         { *m = wireToken{} }
	func (m *wireToken) String() string { return proto.CompactTextString(m) }
	func (*wireToken) ProtoMessage()    {}

	func (t *Token) Marshal() ([]byte, error) {
		return codec.Marshal((*wireToken)(t))
	}

	func (t *Token) Unmarshal(raw []byte) error {
		return codec.Unmarshal(raw, (*wireToken)(t))
	}

Embedded messages are encoded through their own Marshal method and decoded
from their struct tags, so every field of a serialized structure must be
tagged. Amounts are declared with the customtype option and travel as a
bytes field.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// Marshaler is implemented by any structure that can serialize itself.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Unmarshaler is implemented by any structure that can load its state from
// serialized form.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Marshal serializes the message. An encoding failure, such as an invalid
// UTF-8 string, is reported as ErrInput.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal resets the message and loads the serialized data into it.
// Malformed data is reported as ErrInput. Unknown fields are skipped.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
