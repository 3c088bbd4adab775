package escrow

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const (
	pathDepositMsg = "escrow/deposit"
	pathClaimMsg   = "escrow/claim"
)

// DepositMsg funds an escrow instance. The depositor must sign the message
// and must have approved the escrow account to spend the amount.
type DepositMsg struct {
	Metadata   *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	InstanceID []byte          `protobuf:"bytes,2,opt,name=instance_id,proto3"`
	Depositor  weave.Address   `protobuf:"bytes,3,opt,name=depositor,proto3"`
	Token      weave.Address   `protobuf:"bytes,4,opt,name=token,proto3"`
	Amount     coin.Amount     `protobuf:"bytes,5,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
	Claimants  []weave.Address `protobuf:"bytes,6,rep,name=claimants"`
	TimeBound  TimeBound       `protobuf:"bytes,7,opt,name=time_bound"`
}

var _ weave.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "InstanceID", ValidateInstanceID(m.InstanceID))
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	if m.Amount.IsNegative() {
		errs = errors.AppendField(errs, "Amount", errors.Wrapf(ErrNegativeAmount, "%s", m.Amount))
	}
	errs = errors.AppendField(errs, "Claimants", validateClaimants(m.Claimants))
	errs = errors.AppendField(errs, "TimeBound", m.TimeBound.Validate())
	return errs
}

// ClaimMsg transfers the whole escrowed amount to the claimant, who must
// sign the message.
type ClaimMsg struct {
	Metadata   *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	InstanceID []byte          `protobuf:"bytes,2,opt,name=instance_id,proto3"`
	Claimant   weave.Address   `protobuf:"bytes,3,opt,name=claimant,proto3"`
}

var _ weave.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return pathClaimMsg
}

func (m *ClaimMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "InstanceID", ValidateInstanceID(m.InstanceID))
	errs = errors.AppendField(errs, "Claimant", m.Claimant.Validate())
	return errs
}
