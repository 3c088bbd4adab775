package escrow

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	depositCost int64 = 300
	claimCost   int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(pathDepositMsg, &DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathClaimMsg, &ClaimHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register the records bucket as "/escrows"
func RegisterQuery(qr weave.QueryRouter) {
	NewRecordBucket().Register("escrows", qr)
}

func instanceTags(action string, instanceID []byte) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("escrow.action"), Value: []byte(action)},
		{Key: []byte("escrow.instance"), Value: []byte(hexID(instanceID))},
	}
}

// DepositHandler funds an escrow instance.
type DepositHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*DepositHandler)(nil)

// Check verifies the message and that the instance can be funded. It does
// not test the ledger.
func (h *DepositHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	switch _, err := h.ctrl.Balance(db, msg.InstanceID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyFunded, "instance %x", msg.InstanceID)
	case !ErrNotFunded.Is(err):
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: depositCost}, nil
}

func (h *DepositHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	_, err = h.ctrl.Deposit(db, msg.InstanceID, msg.Depositor, msg.Token, msg.Amount, msg.Claimants, msg.TimeBound)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: msg.InstanceID,
		Tags: instanceTags("deposit", msg.InstanceID),
	}, nil
}

func (h *DepositHandler) validate(ctx weave.Context, tx weave.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return &msg, nil
}

// ClaimHandler releases the escrowed amount to a claimant.
type ClaimHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*ClaimHandler)(nil)

// Check verifies all preconditions of the claim, including the time bound.
func (h *ClaimHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := h.ctrl.clock.Now(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "clock")
	}
	if !rec.TimeBound.Contains(now) {
		return nil, errors.Wrapf(ErrTimeBoundViolation, "instance %x", msg.InstanceID)
	}
	return &weave.CheckResult{GasAllocated: claimCost}, nil
}

func (h *ClaimHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Claim(ctx, db, msg.InstanceID, msg.Claimant); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: msg.InstanceID,
		Tags: instanceTags("claim", msg.InstanceID),
	}, nil
}

// validate checks that the instance is funded, the claimant signed the
// message and is eligible, in that order.
func (h *ClaimHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ClaimMsg, *ClaimableBalance, error) {
	var msg ClaimMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	rec, err := h.ctrl.Balance(db, msg.InstanceID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Claimant) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "claimant signature missing")
	}
	if !rec.IsClaimant(msg.Claimant) {
		return nil, nil, errors.Wrapf(ErrNotEligible, "%s", msg.Claimant)
	}
	return &msg, rec, nil
}
