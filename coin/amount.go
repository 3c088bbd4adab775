/*
Package coin provides the Amount type: a signed 128-bit integer with checked
arithmetic, used for every balance, allowance and escrowed value.
*/
package coin

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"math/bits"
	"strings"

	"github.com/iov-one/timelock/errors"
)

// Amount is a two's complement signed 128-bit integer. The zero value is a
// valid zero amount.
type Amount struct {
	hi int64
	lo uint64
}

var (
	// MaxAmount is the largest representable amount, 2^127-1.
	MaxAmount = Amount{hi: 1<<63 - 1, lo: 1<<64 - 1}
	// MinAmount is the smallest representable amount, -2^127.
	MinAmount = Amount{hi: -1 << 63, lo: 0}

	maxBig = MaxAmount.big()
	minBig = MinAmount.big()
	mod128 = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64 = new(big.Int).SetUint64(1<<64 - 1)
)

// NewAmount returns an amount of the given value.
func NewAmount(v int64) Amount {
	return Amount{hi: v >> 63, lo: uint64(v)}
}

// ParseAmount reads the decimal representation of an amount.
func ParseAmount(s string) (Amount, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	return fromBig(x)
}

// MustParseAmount is ParseAmount that panics on error. Use it only for
// constants and in tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func fromBig(x *big.Int) (Amount, error) {
	if x.Cmp(maxBig) > 0 || x.Cmp(minBig) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s does not fit 128 bits", x)
	}
	// Euclidean modulus turns the value into its two's complement form.
	y := new(big.Int).Mod(x, mod128)
	lo := new(big.Int).And(y, mask64).Uint64()
	hi := new(big.Int).Rsh(y, 64).Uint64()
	return Amount{hi: int64(hi), lo: lo}, nil
}

func (a Amount) big() *big.Int {
	x := big.NewInt(a.hi)
	x.Lsh(x, 64)
	return x.Add(x, new(big.Int).SetUint64(a.lo))
}

// Add returns a+b or ErrOverflow if the result does not fit.
func (a Amount) Add(b Amount) (Amount, error) {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(uint64(a.hi), uint64(b.hi), carry)
	res := Amount{hi: int64(hi), lo: lo}
	if a.IsNegative() == b.IsNegative() && res.IsNegative() != a.IsNegative() {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return res, nil
}

// Sub returns a-b or ErrOverflow if the result does not fit.
func (a Amount) Sub(b Amount) (Amount, error) {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi, _ := bits.Sub64(uint64(a.hi), uint64(b.hi), borrow)
	res := Amount{hi: int64(hi), lo: lo}
	if a.IsNegative() != b.IsNegative() && res.IsNegative() != a.IsNegative() {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s - %s", a, b)
	}
	return res, nil
}

// Cmp returns -1, 0 or 1 when a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(b Amount) bool {
	return a == b
}

// Sign returns -1, 0 or 1 depending on the sign of the amount.
func (a Amount) Sign() int {
	switch {
	case a.hi < 0:
		return -1
	case a.hi == 0 && a.lo == 0:
		return 0
	}
	return 1
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.hi == 0 && a.lo == 0
}

// IsNegative returns true if the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.hi < 0
}

// Int64 returns the value as int64 and false if it does not fit.
func (a Amount) Int64() (int64, bool) {
	v := int64(a.lo)
	return v, v>>63 == a.hi
}

func (a Amount) String() string {
	return a.big().String()
}

// Bytes returns the 16 byte big-endian two's complement representation.
func (a Amount) Bytes() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], uint64(a.hi))
	binary.BigEndian.PutUint64(b[8:], a.lo)
	return b
}

// AmountFromBytes reverses Bytes. An empty slice is the zero amount.
func AmountFromBytes(b []byte) (Amount, error) {
	switch len(b) {
	case 0:
		return Amount{}, nil
	case 16:
		return Amount{
			hi: int64(binary.BigEndian.Uint64(b[:8])),
			lo: binary.BigEndian.Uint64(b[8:]),
		}, nil
	}
	return Amount{}, errors.Wrapf(errors.ErrAmount, "invalid binary length %d", len(b))
}

// Marshal, Size and Unmarshal make Amount a gogo/protobuf custom type, so
// that models can declare it as a bytes field.

func (a Amount) Marshal() ([]byte, error) {
	return a.Bytes(), nil
}

func (a Amount) Size() int {
	return 16
}

func (a *Amount) Unmarshal(raw []byte) error {
	v, err := AmountFromBytes(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON encodes the amount as a decimal string, since most JSON
// readers cannot represent 128-bit numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a string or an integer")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
