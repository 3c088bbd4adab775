package token

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const (
	pathCreateTokenMsg         = "token/create"
	pathMintMsg                = "token/mint"
	pathApproveMsg             = "token/approve"
	pathTransferMsg            = "token/transfer"
	pathUpdateConfigurationMsg = "token/update_configuration"
)

// CreateTokenMsg declares a new token. Only the configuration owner can
// create tokens.
type CreateTokenMsg struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Admin    weave.Address   `protobuf:"bytes,2,opt,name=admin,proto3"`
	Decimals uint32          `protobuf:"varint,3,opt,name=decimals,proto3"`
	Name     string          `protobuf:"bytes,4,opt,name=name,proto3"`
	Symbol   string          `protobuf:"bytes,5,opt,name=symbol,proto3"`
}

var _ weave.Msg = (*CreateTokenMsg)(nil)

func (CreateTokenMsg) Path() string {
	return pathCreateTokenMsg
}

func (m *CreateTokenMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	t := Token{
		Metadata: m.Metadata,
		Admin:    m.Admin,
		Decimals: m.Decimals,
		Name:     m.Name,
		Symbol:   m.Symbol,
	}
	return t.Validate()
}

// MintMsg issues new supply of a token to the recipient. It must be signed
// by the token admin.
type MintMsg struct {
	Metadata  *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Token     weave.Address   `protobuf:"bytes,2,opt,name=token,proto3"`
	Recipient weave.Address   `protobuf:"bytes,3,opt,name=recipient,proto3"`
	Amount    coin.Amount     `protobuf:"bytes,4,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
}

var _ weave.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return pathMintMsg
}

func (m *MintMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// ApproveMsg increases the allowance of the spender over the owner's
// balance.
type ApproveMsg struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Token    weave.Address   `protobuf:"bytes,2,opt,name=token,proto3"`
	Owner    weave.Address   `protobuf:"bytes,3,opt,name=owner,proto3"`
	Spender  weave.Address   `protobuf:"bytes,4,opt,name=spender,proto3"`
	Amount   coin.Amount     `protobuf:"bytes,5,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
}

var _ weave.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m *ApproveMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// TransferMsg moves tokens between two accounts.
type TransferMsg struct {
	Metadata    *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Token       weave.Address   `protobuf:"bytes,2,opt,name=token,proto3"`
	Source      weave.Address   `protobuf:"bytes,3,opt,name=source,proto3"`
	Destination weave.Address   `protobuf:"bytes,4,opt,name=destination,proto3"`
	Amount      coin.Amount     `protobuf:"bytes,5,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
}

var _ weave.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// UpdateConfigurationMsg changes the configuration of this extension. Zero
// value fields of the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Patch    *Configuration  `protobuf:"bytes,2,opt,name=patch"`
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	return m.Patch.Validate()
}

func validateAmount(a coin.Amount) error {
	if a.IsNegative() {
		return errors.Wrapf(errors.ErrAmount, "negative amount %s", a)
	}
	return nil
}
