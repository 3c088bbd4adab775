package token

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Ledger implements all token operations on top of a key value store. A
// failed operation never writes to the store.
type Ledger struct {
	tokens     orm.ModelBucket
	balances   orm.ModelBucket
	allowances orm.ModelBucket
	guards     []RecipientGuard
}

// RecipientGuard returns an error if the account must not be credited by a
// mint or a transfer.
type RecipientGuard func(db weave.ReadOnlyKVStore, to weave.Address) error

// NewLedger returns a ledger using the default buckets.
func NewLedger() *Ledger {
	return &Ledger{
		tokens:     NewTokenBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

// GuardRecipients registers a check run against the recipient of every
// mint and transfer. A TransferFrom is not checked when the spender pulls
// the funds to itself.
func (l *Ledger) GuardRecipients(g func(db weave.ReadOnlyKVStore, to weave.Address) error) {
	l.guards = append(l.guards, g)
}

func (l *Ledger) checkRecipient(db weave.ReadOnlyKVStore, to weave.Address) error {
	for _, g := range l.guards {
		if err := g(db, to); err != nil {
			return errors.Wrapf(err, "recipient %s", to)
		}
	}
	return nil
}

// CreateToken declares a new token and returns its address. ErrDuplicate is
// returned if a token with the same symbol exists.
func (l *Ledger) CreateToken(db weave.KVStore, admin weave.Address, decimals uint32, name, symbol string) (weave.Address, error) {
	t := &Token{
		Metadata: &weave.Metadata{Schema: 1},
		Admin:    admin,
		Decimals: decimals,
		Name:     name,
		Symbol:   symbol,
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	addr := t.Address()
	switch err := l.tokens.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "token %s", symbol)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := l.tokens.Put(db, addr, t); err != nil {
		return nil, errors.Wrap(err, "cannot store token")
	}
	return addr, nil
}

// Token returns the token declared under given address.
func (l *Ledger) Token(db weave.ReadOnlyKVStore, token weave.Address) (*Token, error) {
	var t Token
	switch err := l.tokens.One(db, token, &t); {
	case err == nil:
		return &t, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUnknownToken, "%s", token)
	default:
		return nil, err
	}
}

// Mint issues given amount of tokens to the recipient. Only the token admin
// can mint.
func (l *Ledger) Mint(db weave.KVStore, token, admin, to weave.Address, amount coin.Amount) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	t, err := l.Token(db, token)
	if err != nil {
		return err
	}
	if !t.Admin.Equals(admin) {
		return errors.Wrap(errors.ErrUnauthorized, "only token admin can mint")
	}
	if err := l.checkRecipient(db, to); err != nil {
		return err
	}
	have, err := l.BalanceOf(db, token, to)
	if err != nil {
		return err
	}
	total, err := have.Add(amount)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	return l.setBalance(db, token, to, total)
}

// BalanceOf returns the amount of tokens owned by the holder. An account
// that never received any tokens has a zero balance.
func (l *Ledger) BalanceOf(db weave.ReadOnlyKVStore, token, holder weave.Address) (coin.Amount, error) {
	if _, err := l.Token(db, token); err != nil {
		return coin.Amount{}, err
	}
	var b Balance
	switch err := l.balances.One(db, BalanceKey(token, holder), &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, nil
	default:
		return coin.Amount{}, err
	}
}

// Allowance returns the amount the spender can move from the owner's
// balance.
func (l *Ledger) Allowance(db weave.ReadOnlyKVStore, token, owner, spender weave.Address) (coin.Amount, error) {
	if _, err := l.Token(db, token); err != nil {
		return coin.Amount{}, err
	}
	var a Allowance
	switch err := l.allowances.One(db, AllowanceKey(token, owner, spender), &a); {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, nil
	default:
		return coin.Amount{}, err
	}
}

// Approve increases the allowance of the spender by given amount. If the
// result does not fit the amount type, ErrAllowanceOverflow is returned and
// the previous allowance is kept.
func (l *Ledger) Approve(db weave.KVStore, token, owner, spender weave.Address, amount coin.Amount) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	have, err := l.Allowance(db, token, owner, spender)
	if err != nil {
		return err
	}
	total, err := have.Add(amount)
	if err != nil {
		return errors.Wrapf(ErrAllowanceOverflow, "%s + %s", have, amount)
	}
	return l.setAllowance(db, token, owner, spender, total)
}

// Transfer moves tokens from one account to another.
func (l *Ledger) Transfer(db weave.KVStore, token, from, to weave.Address, amount coin.Amount) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	fromBalance, err := l.BalanceOf(db, token, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "have %s, want %s", fromBalance, amount)
	}
	if err := l.checkRecipient(db, to); err != nil {
		return err
	}
	return l.move(db, token, from, to, fromBalance, amount)
}

// TransferFrom moves tokens from one account to another on behalf of the
// spender, using its allowance. Both the allowance and the balance are
// checked before anything is written.
func (l *Ledger) TransferFrom(db weave.KVStore, token, spender, from, to weave.Address, amount coin.Amount) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	allowance, err := l.Allowance(db, token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientAllowance, "have %s, want %s", allowance, amount)
	}
	fromBalance, err := l.BalanceOf(db, token, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "have %s, want %s", fromBalance, amount)
	}
	if !spender.Equals(to) {
		if err := l.checkRecipient(db, to); err != nil {
			return err
		}
	}
	if !from.Equals(to) {
		toBalance, err := l.BalanceOf(db, token, to)
		if err != nil {
			return err
		}
		if _, err := toBalance.Add(amount); err != nil {
			return errors.Wrap(err, "recipient balance")
		}
	}

	left, err := allowance.Sub(amount)
	if err != nil {
		return errors.Wrap(err, "allowance")
	}
	if err := l.setAllowance(db, token, from, spender, left); err != nil {
		return err
	}
	return l.move(db, token, from, to, fromBalance, amount)
}

// move transfers amount between accounts. Source balance must be already
// checked to cover the amount.
func (l *Ledger) move(db weave.KVStore, token, from, to weave.Address, fromBalance, amount coin.Amount) error {
	if from.Equals(to) || amount.IsZero() {
		return nil
	}
	toBalance, err := l.BalanceOf(db, token, to)
	if err != nil {
		return err
	}
	newTo, err := toBalance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}
	newFrom, err := fromBalance.Sub(amount)
	if err != nil {
		return errors.Wrap(err, "source balance")
	}
	if err := l.setBalance(db, token, from, newFrom); err != nil {
		return err
	}
	return l.setBalance(db, token, to, newTo)
}

// setBalance stores the balance. Zero balance removes the entry.
func (l *Ledger) setBalance(db weave.KVStore, token, holder weave.Address, amount coin.Amount) error {
	key := BalanceKey(token, holder)
	if amount.IsZero() {
		if err := l.balances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	b := &Balance{Metadata: &weave.Metadata{Schema: 1}, Amount: amount}
	return l.balances.Put(db, key, b)
}

// setAllowance stores the allowance. Zero allowance removes the entry.
func (l *Ledger) setAllowance(db weave.KVStore, token, owner, spender weave.Address, amount coin.Amount) error {
	key := AllowanceKey(token, owner, spender)
	if amount.IsZero() {
		if err := l.allowances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	a := &Allowance{Metadata: &weave.Metadata{Schema: 1}, Amount: amount}
	return l.allowances.Put(db, key, a)
}
