/*
Package bech32 converts between raw payloads and their bech32 text form,
as used by the "bech32:" address format.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/timelock/errors"
)

// Decode returns the human readable part and the payload of a bech32
// string. Malformed input results in ErrInput.
func Decode(enc string) (string, []byte, error) {
	hrp, groups, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	payload, err := bech32.ConvertBits(groups, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	return hrp, payload, nil
}

// Encode returns the bech32 representation of the payload.
func Encode(hrp string, payload []byte) ([]byte, error) {
	if hrp == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "bech32 prefix")
	}
	groups, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	enc, err := bech32.Encode(hrp, groups)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return []byte(enc), nil
}
