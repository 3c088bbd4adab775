package escrow

import (
	"encoding/hex"
	"sync"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
	"github.com/tendermint/tendermint/libs/log"
)

// Escrow exposes the state machine over a shared store. Calls are
// serialized with a single lock because all instances share the ledger.
// Each call runs in a cache wrap of the store that is written only when the
// operation succeeds.
type Escrow struct {
	mu     sync.Mutex
	db     weave.CacheableKVStore
	ctrl   *Controller
	auth   x.Authenticator
	logger log.Logger
}

// NewEscrow returns a service operating on given store. Callers are
// authorized through auth using the context passed to each call.
func NewEscrow(db weave.CacheableKVStore, ctrl *Controller, auth x.Authenticator, logger log.Logger) *Escrow {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Escrow{
		db:     db,
		ctrl:   ctrl,
		auth:   auth,
		logger: logger.With("module", "escrow"),
	}
}

// Deposit funds the instance. The depositor must be authorized in the
// context.
func (e *Escrow) Deposit(
	ctx weave.Context,
	instanceID []byte,
	depositor, token weave.Address,
	amount coin.Amount,
	claimants []weave.Address,
	tb TimeBound,
) error {
	err := e.atomic(func(db weave.KVStore) error {
		if !e.auth.HasAddress(ctx, depositor) {
			return errors.Wrap(errors.ErrUnauthorized, "depositor")
		}
		_, err := e.ctrl.Deposit(db, instanceID, depositor, token, amount, claimants, tb)
		return err
	})
	if err != nil {
		e.logger.Debug("deposit rejected", "instance", hexID(instanceID), "depositor", depositor, "err", err)
		return err
	}
	e.logger.Info("deposit", "instance", hexID(instanceID), "depositor", depositor, "amount", amount.String(), "claimants", len(claimants))
	return nil
}

// Claim releases the escrowed amount to the claimant, who must be
// authorized in the context. The claimed amount is returned.
func (e *Escrow) Claim(ctx weave.Context, instanceID []byte, claimant weave.Address) (coin.Amount, error) {
	var rec *ClaimableBalance
	err := e.atomic(func(db weave.KVStore) error {
		if _, err := e.ctrl.Balance(db, instanceID); err != nil {
			return err
		}
		if !e.auth.HasAddress(ctx, claimant) {
			return errors.Wrap(errors.ErrUnauthorized, "claimant")
		}
		var err error
		rec, err = e.ctrl.Claim(ctx, db, instanceID, claimant)
		return err
	})
	if err != nil {
		e.logger.Debug("claim rejected", "instance", hexID(instanceID), "claimant", claimant, "err", err)
		return coin.Amount{}, err
	}
	e.logger.Info("claim", "instance", hexID(instanceID), "claimant", claimant, "amount", rec.Amount.String())
	return rec.Amount, nil
}

// Balance returns the current record of the instance.
func (e *Escrow) Balance(instanceID []byte) (*ClaimableBalance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Balance(e.db, instanceID)
}

// IsInitialized returns true if the instance is funded.
func (e *Escrow) IsInitialized(instanceID []byte) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.IsInitialized(e.db, instanceID)
}

// CheckInvariants verifies the consistency of the instance state with the
// ledger.
func (e *Escrow) CheckInvariants(instanceID []byte, tokens ...weave.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.CheckInvariants(e.db, instanceID, tokens...)
}

// Atomic runs fn under the service lock in a cache wrap of the store. The
// changes are written only if fn succeeds. It allows to combine escrow
// calls with other operations on the same store.
func (e *Escrow) Atomic(fn func(db weave.KVStore) error) error {
	return e.atomic(fn)
}

func (e *Escrow) atomic(fn func(db weave.KVStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func hexID(id []byte) string {
	return hex.EncodeToString(id)
}
