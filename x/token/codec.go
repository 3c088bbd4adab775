package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/codec"
)

// Wire encoding of all models and messages declared by this package, as
// laid out by their struct tags. Field numbers must never be reused.

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

type wireBalance Balance

func (m *wireBalance) Reset()         { *m = wireBalance{} }
func (m *wireBalance) String() string { return proto.CompactTextString(m) }
func (*wireBalance) ProtoMessage()    {}

func (b *Balance) Marshal() ([]byte, error) {
	return codec.Marshal((*wireBalance)(b))
}

func (b *Balance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireBalance)(b))
}

type wireAllowance Allowance

func (m *wireAllowance) Reset()         { *m = wireAllowance{} }
func (m *wireAllowance) String() string { return proto.CompactTextString(m) }
func (*wireAllowance) ProtoMessage()    {}

func (a *Allowance) Marshal() ([]byte, error) {
	return codec.Marshal((*wireAllowance)(a))
}

func (a *Allowance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireAllowance)(a))
}

type wireConfiguration Configuration

func (m *wireConfiguration) Reset()         { *m = wireConfiguration{} }
func (m *wireConfiguration) String() string { return proto.CompactTextString(m) }
func (*wireConfiguration) ProtoMessage()    {}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal((*wireConfiguration)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireConfiguration)(c))
}

type wireCreateTokenMsg CreateTokenMsg

func (m *wireCreateTokenMsg) Reset()         { *m = wireCreateTokenMsg{} }
func (m *wireCreateTokenMsg) String() string { return proto.CompactTextString(m) }
func (*wireCreateTokenMsg) ProtoMessage()    {}

func (m *CreateTokenMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireCreateTokenMsg)(m))
}

func (m *CreateTokenMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireCreateTokenMsg)(m))
}

type wireMintMsg MintMsg

func (m *wireMintMsg) Reset()         { *m = wireMintMsg{} }
func (m *wireMintMsg) String() string { return proto.CompactTextString(m) }
func (*wireMintMsg) ProtoMessage()    {}

func (m *MintMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireMintMsg)(m))
}

func (m *MintMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireMintMsg)(m))
}

type wireApproveMsg ApproveMsg

func (m *wireApproveMsg) Reset()         { *m = wireApproveMsg{} }
func (m *wireApproveMsg) String() string { return proto.CompactTextString(m) }
func (*wireApproveMsg) ProtoMessage()    {}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireApproveMsg)(m))
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireApproveMsg)(m))
}

type wireTransferMsg TransferMsg

func (m *wireTransferMsg) Reset()         { *m = wireTransferMsg{} }
func (m *wireTransferMsg) String() string { return proto.CompactTextString(m) }
func (*wireTransferMsg) ProtoMessage()    {}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireTransferMsg)(m))
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireTransferMsg)(m))
}

type wireUpdateConfigurationMsg UpdateConfigurationMsg

func (m *wireUpdateConfigurationMsg) Reset()         { *m = wireUpdateConfigurationMsg{} }
func (m *wireUpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*wireUpdateConfigurationMsg) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*wireUpdateConfigurationMsg)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireUpdateConfigurationMsg)(m))
}
