package escrow

import (
	"context"
	"sync"
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestServiceDepositAndClaim(t *testing.T) {
	f := newFixture(t)
	auth := &weavetest.CtxAuth{Key: "auth"}
	svc := NewEscrow(f.db, f.ctrl, auth, log.NewNopLogger())

	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	claimants := []weave.Address{a.Address(), b.Address()}
	tb := TimeBound{Kind: Before, Timestamp: 12346}
	f.approve(t, 4000000)

	// Without the depositor signature nothing happens.
	err := svc.Deposit(context.Background(), f.instance, f.depositor, f.token, coin.NewAmount(4000000), claimants, tb)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	ok, err := svc.IsInitialized(f.instance)
	require.NoError(t, err)
	assert.False(t, ok)

	ctx := auth.SetConditions(context.Background(), f.signer)
	require.NoError(t, svc.Deposit(ctx, f.instance, f.depositor, f.token, coin.NewAmount(4000000), claimants, tb))
	require.NoError(t, svc.CheckInvariants(f.instance, f.token))

	rec, err := svc.Balance(f.instance)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(4000000), rec.Amount)

	// A claimant must sign the claim.
	_, err = svc.Claim(ctx, f.instance, b.Address())
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	got, err := svc.Claim(auth.SetConditions(context.Background(), b), f.instance, b.Address())
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(4000000), got)
	assert.Equal(t, coin.NewAmount(4000000), f.balance(t, b.Address()))
	require.NoError(t, svc.CheckInvariants(f.instance, f.token))

	_, err = svc.Claim(auth.SetConditions(context.Background(), a), f.instance, a.Address())
	assert.True(t, ErrNotFunded.Is(err), "%+v", err)
}

func TestServiceAtomicDiscardsOnFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewEscrow(f.db, f.ctrl, &weavetest.Auth{Signer: f.signer}, nil)
	claimant := weavetest.NewCondition().Address()

	err := svc.Atomic(func(db weave.KVStore) error {
		if err := f.ledger.Approve(db, f.token, f.depositor, Account(f.instance), coin.NewAmount(10)); err != nil {
			return err
		}
		if _, err := f.ctrl.Deposit(db, f.instance, f.depositor, f.token, coin.NewAmount(10), []weave.Address{claimant}, TimeBound{}); err != nil {
			return err
		}
		return errors.Wrap(errors.ErrHuman, "abort")
	})
	assert.True(t, errors.ErrHuman.Is(err), "%+v", err)

	allowance, err := f.ledger.Allowance(f.db, f.token, f.depositor, Account(f.instance))
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())
	ok, err := svc.IsInitialized(f.instance)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, svc.CheckInvariants(f.instance, f.token))
}

func TestServiceConcurrentClaims(t *testing.T) {
	f := newFixture(t)
	claimants := make([]weave.Condition, MaxClaimants)
	addrs := make([]weave.Address, MaxClaimants)
	for i := range claimants {
		claimants[i] = weavetest.NewCondition()
		addrs[i] = claimants[i].Address()
	}
	f.approve(t, 1000)
	require.NoError(t, f.deposit(1000, addrs, TimeBound{Kind: After}))

	auth := &weavetest.CtxAuth{Key: "auth"}
	svc := NewEscrow(f.db, f.ctrl, auth, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, c := range claimants {
		wg.Add(1)
		go func(c weave.Condition) {
			defer wg.Done()
			ctx := auth.SetConditions(context.Background(), c)
			_, err := svc.Claim(ctx, f.instance, c.Address())
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.True(t, ErrNotFunded.Is(err), "%+v", err)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	require.NoError(t, svc.CheckInvariants(f.instance, f.token))
}
