package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the public key
// that created it and the sequence it was created for.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

type wireStdSignature StdSignature

func (m *wireStdSignature) Reset()         { *m = wireStdSignature{} }
func (m *wireStdSignature) String() string { return proto.CompactTextString(m) }
func (*wireStdSignature) ProtoMessage()    {}

func (s *StdSignature) Marshal() ([]byte, error) {
	return codec.Marshal((*wireStdSignature)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireStdSignature)(s))
}

type wireUserData UserData

func (m *wireUserData) Reset()         { *m = wireUserData{} }
func (m *wireUserData) String() string { return proto.CompactTextString(m) }
func (*wireUserData) ProtoMessage()    {}

func (u *UserData) Marshal() ([]byte, error) {
	return codec.Marshal((*wireUserData)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireUserData)(u))
}
