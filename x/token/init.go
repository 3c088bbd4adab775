package token

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Ledger *Ledger
}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis will parse the configuration, tokens and initial balances from
// genesis and save them in the database.
func (i *Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confPkg, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var tokens []struct {
		Admin    weave.Address `json:"admin"`
		Decimals uint32        `json:"decimals"`
		Name     string        `json:"name"`
		Symbol   string        `json:"symbol"`
	}
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return err
	}
	for j, t := range tokens {
		if _, err := i.Ledger.CreateToken(db, t.Admin, t.Decimals, t.Name, t.Symbol); err != nil {
			return errors.Wrapf(err, "token #%d", j)
		}
	}

	var balances []struct {
		Symbol string        `json:"symbol"`
		Holder weave.Address `json:"holder"`
		Amount coin.Amount   `json:"amount"`
	}
	if err := opts.ReadOptions("balances", &balances); err != nil {
		return err
	}
	for j, b := range balances {
		addr := TokenAddress(b.Symbol)
		t, err := i.Ledger.Token(db, addr)
		if err != nil {
			return errors.Wrapf(err, "balance #%d", j)
		}
		if err := b.Holder.Validate(); err != nil {
			return errors.Wrapf(err, "balance #%d holder", j)
		}
		if err := i.Ledger.Mint(db, addr, t.Admin, b.Holder, b.Amount); err != nil {
			return errors.Wrapf(err, "balance #%d", j)
		}
	}
	return nil
}
