package token

import (
	"regexp"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const maxDecimals = 18

var (
	// IsSymbol returns true if given string is a valid token symbol.
	IsSymbol    = regexp.MustCompile(`^[A-Z0-9]{3,12}$`).MatchString
	isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:.]{1,64}$`).MatchString
)

// Token declares a fungible asset.
type Token struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	// Admin is allowed to mint new supply.
	Admin    weave.Address `protobuf:"bytes,2,opt,name=admin,proto3"`
	Decimals uint32        `protobuf:"varint,3,opt,name=decimals,proto3"`
	Name     string        `protobuf:"bytes,4,opt,name=name,proto3"`
	Symbol   string        `protobuf:"bytes,5,opt,name=symbol,proto3"`
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var errs error
	errs = errors.AppendField(errs, "Admin", t.Admin.Validate())
	if t.Decimals > maxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "more than %d", maxDecimals))
	}
	if !isTokenName(t.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid name %q", t.Name))
	}
	if !IsSymbol(t.Symbol) {
		errs = errors.AppendField(errs, "Symbol", errors.Wrapf(errors.ErrInput, "invalid symbol %q", t.Symbol))
	}
	return errs
}

func (t *Token) Copy() orm.Model {
	return &Token{
		Metadata: t.Metadata.Copy(),
		Admin:    append(weave.Address(nil), t.Admin...),
		Decimals: t.Decimals,
		Name:     t.Name,
		Symbol:   t.Symbol,
	}
}

// Address returns the address identifying this token.
func (t *Token) Address() weave.Address {
	return TokenAddress(t.Symbol)
}

// TokenAddress returns the address of the token with given symbol.
func TokenAddress(symbol string) weave.Address {
	return weave.NewCondition("token", "symbol", []byte(symbol)).Address()
}

// Balance is the amount of a single token owned by a single holder.
type Balance struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Amount   coin.Amount     `protobuf:"bytes,2,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Validate() error {
	if err := b.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if b.Amount.IsNegative() {
		return errors.Field("Amount", errors.ErrAmount, "negative balance")
	}
	return nil
}

func (b *Balance) Copy() orm.Model {
	return &Balance{Metadata: b.Metadata.Copy(), Amount: b.Amount}
}

// Allowance is the amount a spender is allowed to move from the owner's
// balance.
type Allowance struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Amount   coin.Amount     `protobuf:"bytes,2,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Validate() error {
	if err := a.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if a.Amount.IsNegative() {
		return errors.Field("Amount", errors.ErrAmount, "negative allowance")
	}
	return nil
}

func (a *Allowance) Copy() orm.Model {
	return &Allowance{Metadata: a.Metadata.Copy(), Amount: a.Amount}
}

// BalanceKey returns the key of the balance of given holder.
func BalanceKey(token, holder weave.Address) []byte {
	return concat(token, holder)
}

// AllowanceKey returns the key of the allowance given by the owner to the
// spender.
func AllowanceKey(token, owner, spender weave.Address) []byte {
	return concat(token, owner, spender)
}

func concat(addrs ...weave.Address) []byte {
	var n int
	for _, a := range addrs {
		n += len(a)
	}
	out := make([]byte, 0, n)
	for _, a := range addrs {
		out = append(out, a...)
	}
	return out
}

// NewTokenBucket returns a bucket storing tokens by their address.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{})
}

// NewBalanceBucket returns a bucket storing balances by BalanceKey.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokbal", &Balance{})
}

// NewAllowanceBucket returns a bucket storing allowances by AllowanceKey.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokallow", &Allowance{})
}
