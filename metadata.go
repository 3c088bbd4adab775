package weave

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
)

// Metadata is embedded in every persisted model. The schema version allows
// to migrate stored data when the model declaration changes.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// Validate returns an error if the metadata is missing or declares an
// invalid schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

type wireMetadata Metadata

func (m *wireMetadata) Reset()         { *m = wireMetadata{} }
func (m *wireMetadata) String() string { return proto.CompactTextString(m) }
func (*wireMetadata) ProtoMessage()    {}

func (m *Metadata) Marshal() ([]byte, error) {
	return codec.Marshal((*wireMetadata)(m))
}

func (m *Metadata) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireMetadata)(m))
}
