package escrow

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Controller implements the escrow state machine. Every instance is
// independent from the others. A failed operation leaves both the escrow
// state and the ledger unchanged.
type Controller struct {
	clock    Clock
	ledger   AssetLedger
	records  orm.ModelBucket
	flags    orm.ModelBucket
	accounts orm.ModelBucket
}

// NewController returns a controller reading the time from given clock and
// moving funds through given ledger. If the ledger accepts recipient guards,
// GuardAccount is registered so that escrow accounts cannot be credited
// outside of a deposit.
func NewController(clock Clock, ledger AssetLedger) *Controller {
	c := &Controller{
		clock:    clock,
		ledger:   ledger,
		records:  NewRecordBucket(),
		flags:    NewFlagBucket(),
		accounts: NewAccountBucket(),
	}
	if g, ok := ledger.(GuardedLedger); ok {
		g.GuardRecipients(c.GuardAccount)
	}
	return c
}

// Deposit funds the instance with the amount taken from the depositor
// through the allowance given to the escrow account. The caller is
// responsible for authorizing the depositor.
func (c *Controller) Deposit(
	db weave.KVStore,
	instanceID []byte,
	depositor, token weave.Address,
	amount coin.Amount,
	claimants []weave.Address,
	tb TimeBound,
) (*ClaimableBalance, error) {
	if amount.IsNegative() {
		return nil, errors.Wrapf(ErrNegativeAmount, "%s", amount)
	}
	if err := validateClaimants(claimants); err != nil {
		return nil, err
	}
	if err := ValidateInstanceID(instanceID); err != nil {
		return nil, err
	}
	if err := tb.Validate(); err != nil {
		return nil, errors.Wrap(err, "time bound")
	}

	switch err := c.records.Has(db, instanceID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyFunded, "instance %x", instanceID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	account := Account(instanceID)
	held, err := c.ledger.BalanceOf(db, token, account)
	if err != nil {
		return nil, err
	}
	if !held.IsZero() {
		return nil, errors.Wrapf(errors.ErrState, "escrow account already holds %s", held)
	}
	if err := c.ledger.TransferFrom(db, token, account, depositor, account, amount); err != nil {
		return nil, err
	}
	if err := c.indexAccount(db, instanceID); err != nil {
		return nil, err
	}

	rec := &ClaimableBalance{
		Metadata:  &weave.Metadata{Schema: 1},
		Token:     token,
		Amount:    amount,
		Claimants: claimants,
		TimeBound: tb,
	}
	if err := c.records.Put(db, instanceID, rec); err != nil {
		return nil, errors.Wrap(err, "cannot store record")
	}
	if err := c.flags.Put(db, instanceID, &InitFlag{Metadata: &weave.Metadata{Schema: 1}}); err != nil {
		return nil, errors.Wrap(err, "cannot store init flag")
	}
	return rec, nil
}

func (c *Controller) indexAccount(db weave.KVStore, instanceID []byte) error {
	idx := &AccountIndex{Metadata: &weave.Metadata{Schema: 1}, InstanceID: instanceID}
	if err := c.accounts.Put(db, Account(instanceID), idx); err != nil {
		return errors.Wrap(err, "cannot index escrow account")
	}
	return nil
}

// GuardAccount returns ErrReservedAccount if the address is the escrow
// account of an instance that was ever funded.
func (c *Controller) GuardAccount(db weave.ReadOnlyKVStore, addr weave.Address) error {
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(ErrReservedAccount, "%s", addr)
	case errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}

// Claim transfers the whole escrowed amount to the claimant and clears the
// instance. The caller is responsible for authorizing the claimant.
func (c *Controller) Claim(ctx weave.Context, db weave.KVStore, instanceID []byte, claimant weave.Address) (*ClaimableBalance, error) {
	rec, err := c.Balance(db, instanceID)
	if err != nil {
		return nil, err
	}
	if !rec.IsClaimant(claimant) {
		return nil, errors.Wrapf(ErrNotEligible, "%s", claimant)
	}
	now, err := c.clock.Now(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "clock")
	}
	if !rec.TimeBound.Contains(now) {
		return nil, errors.Wrapf(ErrTimeBoundViolation, "now %d, %s %d", now, rec.TimeBound.Kind, rec.TimeBound.Timestamp)
	}

	if err := c.ledger.Transfer(db, rec.Token, Account(instanceID), claimant, rec.Amount); err != nil {
		return nil, errors.Wrapf(ErrTransferFailed, "%s", err)
	}
	if err := c.records.Delete(db, instanceID); err != nil {
		return nil, errors.Wrap(err, "cannot delete record")
	}
	if err := c.flags.Delete(db, instanceID); err != nil {
		return nil, errors.Wrap(err, "cannot delete init flag")
	}
	return rec, nil
}

// Balance returns the record of a funded instance.
func (c *Controller) Balance(db weave.ReadOnlyKVStore, instanceID []byte) (*ClaimableBalance, error) {
	var rec ClaimableBalance
	switch err := c.records.One(db, instanceID, &rec); {
	case err == nil:
		return &rec, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrNotFunded, "instance %x", instanceID)
	default:
		return nil, err
	}
}

// IsInitialized returns true if the initialization flag of the instance is
// set.
func (c *Controller) IsInitialized(db weave.ReadOnlyKVStore, instanceID []byte) (bool, error) {
	switch err := c.flags.Has(db, instanceID); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// CheckInvariants returns ErrState if the stored state of the instance is
// inconsistent. The escrow account must hold exactly the recorded amount, or
// nothing of any of the given tokens when the instance is not funded.
func (c *Controller) CheckInvariants(db weave.ReadOnlyKVStore, instanceID []byte, tokens ...weave.Address) error {
	initialized, err := c.IsInitialized(db, instanceID)
	if err != nil {
		return err
	}
	rec, err := c.Balance(db, instanceID)
	switch {
	case err == nil:
	case ErrNotFunded.Is(err):
		rec = nil
	default:
		return err
	}

	if initialized != (rec != nil) {
		return errors.Wrapf(errors.ErrState, "init flag %v, record present %v", initialized, rec != nil)
	}

	account := Account(instanceID)
	if rec != nil {
		if err := rec.Validate(); err != nil {
			return errors.Wrapf(errors.ErrState, "invalid record: %s", err)
		}
		held, err := c.ledger.BalanceOf(db, rec.Token, account)
		if err != nil {
			return err
		}
		if held.Cmp(rec.Amount) != 0 {
			return errors.Wrapf(errors.ErrState, "escrow account holds %s, record %s", held, rec.Amount)
		}
		return nil
	}
	for _, t := range tokens {
		held, err := c.ledger.BalanceOf(db, t, account)
		if err != nil {
			return err
		}
		if !held.IsZero() {
			return errors.Wrapf(errors.ErrState, "unfunded escrow account holds %s", held)
		}
	}
	return nil
}
