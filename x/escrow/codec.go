package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/codec"
)

type wireTimeBound TimeBound

func (m *wireTimeBound) Reset()         { *m = wireTimeBound{} }
func (m *wireTimeBound) String() string { return proto.CompactTextString(m) }
func (*wireTimeBound) ProtoMessage()    {}

func (tb *TimeBound) Marshal() ([]byte, error) {
	return codec.Marshal((*wireTimeBound)(tb))
}

func (tb *TimeBound) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireTimeBound)(tb))
}

type wireClaimableBalance ClaimableBalance

func (m *wireClaimableBalance) Reset()         { *m = wireClaimableBalance{} }
func (m *wireClaimableBalance) String() string { return proto.CompactTextString(m) }
func (*wireClaimableBalance) ProtoMessage()    {}

func (cb *ClaimableBalance) Marshal() ([]byte, error) {
	return codec.Marshal((*wireClaimableBalance)(cb))
}

func (cb *ClaimableBalance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireClaimableBalance)(cb))
}

type wireInitFlag InitFlag

func (m *wireInitFlag) Reset()         { *m = wireInitFlag{} }
func (m *wireInitFlag) String() string { return proto.CompactTextString(m) }
func (*wireInitFlag) ProtoMessage()    {}

func (fl *InitFlag) Marshal() ([]byte, error) {
	return codec.Marshal((*wireInitFlag)(fl))
}

func (fl *InitFlag) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireInitFlag)(fl))
}

type wireAccountIndex AccountIndex

func (m *wireAccountIndex) Reset()         { *m = wireAccountIndex{} }
func (m *wireAccountIndex) String() string { return proto.CompactTextString(m) }
func (*wireAccountIndex) ProtoMessage()    {}

func (a *AccountIndex) Marshal() ([]byte, error) {
	return codec.Marshal((*wireAccountIndex)(a))
}

func (a *AccountIndex) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireAccountIndex)(a))
}

type wireDepositMsg DepositMsg

func (m *wireDepositMsg) Reset()         { *m = wireDepositMsg{} }
func (m *wireDepositMsg) String() string { return proto.CompactTextString(m) }
func (*wireDepositMsg) ProtoMessage()    {}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireDepositMsg)(m))
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireDepositMsg)(m))
}

type wireClaimMsg ClaimMsg

func (m *wireClaimMsg) Reset()         { *m = wireClaimMsg{} }
func (m *wireClaimMsg) String() string { return proto.CompactTextString(m) }
func (*wireClaimMsg) ProtoMessage()    {}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireClaimMsg)(m))
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireClaimMsg)(m))
}
