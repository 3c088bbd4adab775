package escrow

import (
	"encoding/hex"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Controller *Controller
}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis loads funded instances. The escrow account of every instance
// must already hold the declared amount, so the token balances must be
// initialized first.
func (i *Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var escrows []struct {
		Instance  string          `json:"instance"`
		Token     weave.Address   `json:"token"`
		Amount    coin.Amount     `json:"amount"`
		Claimants []weave.Address `json:"claimants"`
		TimeBound TimeBound       `json:"time_bound"`
	}
	if err := opts.ReadOptions("escrows", &escrows); err != nil {
		return err
	}

	c := i.Controller
	for j, e := range escrows {
		id, err := hex.DecodeString(e.Instance)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "escrow #%d: instance must be hex encoded", j)
		}
		if err := ValidateInstanceID(id); err != nil {
			return errors.Wrapf(err, "escrow #%d", j)
		}
		switch err := c.records.Has(db, id); {
		case err == nil:
			return errors.Wrapf(ErrAlreadyFunded, "escrow #%d", j)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "escrow #%d", j)
		}
		rec := &ClaimableBalance{
			Metadata:  &weave.Metadata{Schema: 1},
			Token:     e.Token,
			Amount:    e.Amount,
			Claimants: e.Claimants,
			TimeBound: e.TimeBound,
		}
		if err := c.records.Put(db, id, rec); err != nil {
			return errors.Wrapf(err, "escrow #%d", j)
		}
		if err := c.flags.Put(db, id, &InitFlag{Metadata: &weave.Metadata{Schema: 1}}); err != nil {
			return errors.Wrapf(err, "escrow #%d", j)
		}
		if err := c.indexAccount(db, id); err != nil {
			return errors.Wrapf(err, "escrow #%d", j)
		}
		if err := c.CheckInvariants(db, id); err != nil {
			return errors.Wrapf(err, "escrow #%d", j)
		}
	}
	return nil
}
