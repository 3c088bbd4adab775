package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
)

// counter and label are minimal models used to exercise buckets.

type counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3"`
}

var _ Model = (*counter)(nil)

type wireCounter counter

func (m *wireCounter) Reset()         { *m = wireCounter{} }
func (m *wireCounter) String() string { return proto.CompactTextString(m) }
func (*wireCounter) ProtoMessage()    {}

func (c *counter) Marshal() ([]byte, error) {
	return codec.Marshal((*wireCounter)(c))
}

func (c *counter) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireCounter)(c))
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

func (c *counter) Copy() Model {
	cp := *c
	return &cp
}

type label struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3"`
}

var _ Model = (*label)(nil)

type wireLabel label

func (m *wireLabel) Reset()         { *m = wireLabel{} }
func (m *wireLabel) String() string { return proto.CompactTextString(m) }
func (*wireLabel) ProtoMessage()    {}

func (l *label) Marshal() ([]byte, error) {
	return codec.Marshal((*wireLabel)(l))
}

func (l *label) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireLabel)(l))
}

func (l *label) Validate() error {
	return nil
}

func (l *label) Copy() Model {
	cp := *l
	return &cp
}
