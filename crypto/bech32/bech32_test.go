package bech32

import (
	"bytes"
	"testing"

	"github.com/iov-one/timelock/errors"
)

func TestRoundTrip(t *testing.T) {
	cases := map[string]struct {
		hrp     string
		payload []byte
	}{
		"address":       {hrp: "tlk", payload: bytes.Repeat([]byte{0xab}, 20)},
		"short payload": {hrp: "tiov", payload: []byte("test-payload")},
		"empty payload": {hrp: "tlk", payload: []byte{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			enc, err := Encode(tc.hrp, tc.payload)
			if err != nil {
				t.Fatalf("encode: %s", err)
			}
			hrp, payload, err := Decode(string(enc))
			if err != nil {
				t.Fatalf("decode: %s", err)
			}
			if hrp != tc.hrp {
				t.Fatalf("want prefix %q, got %q", tc.hrp, hrp)
			}
			if !bytes.Equal(payload, tc.payload) {
				t.Fatalf("want payload %x, got %x", tc.payload, payload)
			}
		})
	}
}

func TestKnownEncoding(t *testing.T) {
	const enc = "tiov1w3jhxapdwpshjmr0v9jqymqq4y"
	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if hrp != "tiov" || string(payload) != "test-payload" {
		t.Fatalf("unexpected result: %q %q", hrp, payload)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"broken checksum": "tiov1w3jhxapdwpshjmr0v9jqymqq4z",
		"no separator":    "tiovw3jhxapdwpshjmr0v9jqymqq4y",
		"empty":           "",
	}
	for name, enc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode(enc); !errors.ErrInput.Is(err) {
				t.Fatalf("want ErrInput, got %v", err)
			}
		})
	}
}

func TestEncodeRequiresPrefix(t *testing.T) {
	if _, err := Encode("", []byte("x")); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}
