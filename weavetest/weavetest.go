/*
Package weavetest provides mocks and helpers shared by the tests of all
timelock packages: handlers and decorators counting their calls, an in
memory transaction, authenticators and random keys.
*/
package weavetest

import (
	"context"
	"crypto/rand"
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
)

// BlockCtx returns a context as seen by a handler running inside of the
// block of given height and time.
func BlockCtx(height int64, now weave.UnixTime) weave.Context {
	ctx := weave.WithHeight(context.Background(), height)
	return weave.WithBlockTime(ctx, now.Time())
}

// RandomAddr returns a valid address made of random bytes.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	addr := make(weave.Address, weave.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("cannot read random bytes: %s", err)
	}
	return addr
}

// NewKey returns a fresh ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh key.
func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}
