package escrow

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
)

// AssetLedger moves tokens between accounts. A failed transfer must not
// change any balance or allowance.
type AssetLedger interface {
	// BalanceOf returns the amount of token held by given address.
	BalanceOf(db weave.ReadOnlyKVStore, token, holder weave.Address) (coin.Amount, error)
	// Transfer moves the amount from one account to another.
	Transfer(db weave.KVStore, token, from, to weave.Address, amount coin.Amount) error
	// TransferFrom moves the amount using the allowance that from gave to
	// the spender.
	TransferFrom(db weave.KVStore, token, spender, from, to weave.Address, amount coin.Amount) error
}

// GuardedLedger is implemented by ledgers that can refuse to credit given
// accounts.
type GuardedLedger interface {
	GuardRecipients(func(db weave.ReadOnlyKVStore, to weave.Address) error)
}
