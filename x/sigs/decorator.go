package sigs

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	signatureVerifyCost = 500
)

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ weave.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	signers, err := d.verify(ctx, store, stx)
	if err != nil {
		return nil, err
	}

	res, err := next.Check(withSigners(ctx, signers), store, tx)
	if err != nil {
		return nil, err
	}
	// Signature validation is the most expensive operation. Only valid
	// signatures are charged.
	res.GasAllocated += int64(len(signers) * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	signers, err := d.verify(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), store, tx)
}

func (d Decorator) verify(ctx weave.Context, store weave.KVStore, tx SignedTx) ([]weave.Condition, error) {
	signers, err := VerifyTxSignatures(store, tx, weave.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signers, nil
}
