package token

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/x"
)

const (
	createTokenCost int64 = 100
	mintCost        int64 = 10
	approveCost     int64 = 10
	transferCost    int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(pathCreateTokenMsg, &CreateTokenHandler{auth: auth, ledger: ledger})
	r.Handle(pathMintMsg, &MintHandler{auth: auth, ledger: ledger})
	r.Handle(pathApproveMsg, &ApproveHandler{auth: auth, ledger: ledger})
	r.Handle(pathTransferMsg, &TransferHandler{auth: auth, ledger: ledger})
	r.Handle(pathUpdateConfigurationMsg, NewConfigHandler(auth))
}

// RegisterQuery registers token buckets as "/tokens", "/balances" and
// "/allowances".
func RegisterQuery(qr weave.QueryRouter) {
	NewTokenBucket().Register("tokens", qr)
	NewBalanceBucket().Register("balances", qr)
	NewAllowanceBucket().Register("allowances", qr)
}

// NewConfigHandler returns a handler that allows the configuration owner to
// update the configuration.
func NewConfigHandler(auth x.Authenticator) weave.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth, nil)
}

// CreateTokenHandler declares new tokens.
type CreateTokenHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*CreateTokenHandler)(nil)

func (h *CreateTokenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createTokenCost}, nil
}

func (h *CreateTokenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ledger.CreateToken(db, msg.Admin, msg.Decimals, msg.Name, msg.Symbol)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: addr}, nil
}

func (h *CreateTokenHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateTokenMsg, error) {
	var msg CreateTokenMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration owner signature missing")
	}
	return &msg, nil
}

// MintHandler issues new supply.
type MintHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*MintHandler)(nil)

func (h *MintHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: mintCost}, nil
}

func (h *MintHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Mint(db, msg.Token, t.Admin, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *MintHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*MintMsg, *Token, error) {
	var msg MintMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	t, err := h.ledger.Token(db, msg.Token)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, t.Admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "token admin signature missing")
	}
	return &msg, t, nil
}

// ApproveHandler increases allowances.
type ApproveHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*ApproveHandler)(nil)

func (h *ApproveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approveCost}, nil
}

func (h *ApproveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Approve(db, msg.Token, msg.Owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *ApproveHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ApproveMsg, error) {
	var msg ApproveMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, nil
}

// TransferHandler moves tokens owned by the signer.
type TransferHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: transferCost}, nil
}

func (h *TransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(db, msg.Token, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *TransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
