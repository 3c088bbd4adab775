package weave

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/timelock/crypto/bech32"
	"github.com/iov-one/timelock/errors"
	"github.com/stellar/go/strkey"
)

// AddressLength is the size of every address. It must not change once any
// data was stored.
var AddressLength = 20

// Address identifies an account. It is the truncated sha256 digest of the
// Condition that controls it.
type Address []byte

// NewAddress returns the address of given condition bytes.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// String returns upper case hex of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts any format supported by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps the optional "<format>:" prefix of an encoded
// address to its decoder.
var addressDecoders = map[string]func(string) (Address, error){
	"hex":     decodeHexAddress,
	"cond":    decodeConditionAddress,
	"bech32":  decodeBech32Address,
	"stellar": decodeStellarAddress,
}

// ParseAddress decodes an address. Without a prefix the value is hex.
// Supported prefixes are "hex:", "cond:", "bech32:" and "stellar:". A
// stellar account ID is an ed25519 public key and decodes to the address of
// its signature condition. An empty value is a nil address.
func ParseAddress(enc string) (Address, error) {
	format, value := "hex", enc
	if i := strings.IndexByte(enc, ':'); i >= 0 {
		format, value = enc[:i], enc[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown address format %q", format)
	}
	if value == "" {
		return nil, nil
	}
	addr, err := decode(value)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func decodeHexAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	return raw, nil
}

func decodeConditionAddress(s string) (Address, error) {
	c, err := parseCondition(s)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Address(), nil
}

func decodeBech32Address(s string) (Address, error) {
	_, payload, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "bech32 address")
	}
	return payload, nil
}

func decodeStellarAddress(s string) (Address, error) {
	pub, err := strkey.Decode(strkey.VersionByteAccountID, s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "stellar account: %s", err)
	}
	return NewCondition("sigs", "ed25519", pub).Address(), nil
}
