package escrow

import (
	"context"
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mintAmount = 10000000

type fixture struct {
	db        weave.CacheableKVStore
	ledger    *token.Ledger
	clock     *FixedClock
	ctrl      *Controller
	token     weave.Address
	depositor weave.Address
	signer    weave.Condition
	instance  []byte
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	ledger := token.NewLedger()
	admin := weavetest.NewCondition().Address()
	tok, err := ledger.CreateToken(db, admin, 7, "Lumens", "XLM")
	require.NoError(t, err)
	signer := weavetest.NewCondition()
	depositor := signer.Address()
	require.NoError(t, ledger.Mint(db, tok, admin, depositor, coin.NewAmount(mintAmount)))

	clock := NewFixedClock(12345)
	return &fixture{
		db:        db,
		ledger:    ledger,
		clock:     clock,
		ctrl:      NewController(clock, ledger),
		token:     tok,
		depositor: depositor,
		signer:    signer,
		instance:  []byte("instance-1"),
	}
}

func (f *fixture) approve(t testing.TB, amount int64) {
	t.Helper()
	require.NoError(t, f.ledger.Approve(f.db, f.token, f.depositor, Account(f.instance), coin.NewAmount(amount)))
}

func (f *fixture) balance(t testing.TB, holder weave.Address) coin.Amount {
	t.Helper()
	b, err := f.ledger.BalanceOf(f.db, f.token, holder)
	require.NoError(t, err)
	return b
}

func (f *fixture) deposit(amount int64, claimants []weave.Address, tb TimeBound) error {
	_, err := f.ctrl.Deposit(f.db, f.instance, f.depositor, f.token, coin.NewAmount(amount), claimants, tb)
	return err
}

func (f *fixture) assertInvariants(t testing.TB) {
	t.Helper()
	require.NoError(t, f.ctrl.CheckInvariants(f.db, f.instance, f.token))
}

func TestDepositAndClaim(t *testing.T) {
	f := newFixture(t)
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()

	f.approve(t, 4000000)
	require.NoError(t, f.deposit(4000000, []weave.Address{a, b}, TimeBound{Kind: Before, Timestamp: 12346}))
	f.assertInvariants(t)
	assert.Equal(t, coin.NewAmount(6000000), f.balance(t, f.depositor))
	assert.Equal(t, coin.NewAmount(4000000), f.balance(t, Account(f.instance)))

	rec, err := f.ctrl.Balance(f.db, f.instance)
	require.NoError(t, err)
	assert.Equal(t, f.token, rec.Token)
	assert.Equal(t, []weave.Address{a, b}, rec.Claimants)

	rec, err = f.ctrl.Claim(context.Background(), f.db, f.instance, b)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(4000000), rec.Amount)
	assert.Equal(t, coin.NewAmount(4000000), f.balance(t, b))
	assert.True(t, f.balance(t, Account(f.instance)).IsZero())
	f.assertInvariants(t)

	_, err = f.ctrl.Balance(f.db, f.instance)
	assert.True(t, ErrNotFunded.Is(err), "%+v", err)
	ok, err := f.ctrl.IsInitialized(f.db, f.instance)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.ctrl.Claim(context.Background(), f.db, f.instance, a)
	assert.True(t, ErrNotFunded.Is(err), "%+v", err)
	assert.True(t, f.balance(t, a).IsZero())
}

func TestDepositErrors(t *testing.T) {
	tooMany := make([]weave.Address, MaxClaimants+1)
	for i := range tooMany {
		tooMany[i] = weavetest.NewCondition().Address()
	}
	dup := weavetest.NewCondition().Address()
	tb := TimeBound{Kind: After, Timestamp: 1}

	cases := map[string]struct {
		approve   int64
		amount    int64
		claimants []weave.Address
		prepare   func(t testing.TB, f *fixture)
		wantErr   *errors.Error
	}{
		"negative amount": {
			approve: 100,
			amount:  -1,
			wantErr: ErrNegativeAmount,
		},
		"too many claimants": {
			approve:   100,
			amount:    10,
			claimants: tooMany,
			wantErr:   ErrTooManyClaimants,
		},
		"duplicated claimant": {
			approve:   100,
			amount:    10,
			claimants: []weave.Address{dup, weavetest.NewCondition().Address(), dup},
			wantErr:   ErrDuplicateClaimant,
		},
		"above allowance": {
			approve: 100,
			amount:  101,
			wantErr: token.ErrInsufficientAllowance,
		},
		"without allowance": {
			amount:  1,
			wantErr: token.ErrInsufficientAllowance,
		},
		"above balance": {
			approve: mintAmount + 1,
			amount:  mintAmount + 1,
			wantErr: token.ErrInsufficientBalance,
		},
		"already funded": {
			approve: 100,
			amount:  10,
			prepare: func(t testing.TB, f *fixture) {
				require.NoError(t, f.deposit(50, nil, tb))
			},
			wantErr: ErrAlreadyFunded,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.approve != 0 {
				f.approve(t, tc.approve)
			}
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			before := f.balance(t, f.depositor)
			held := f.balance(t, Account(f.instance))

			err := f.deposit(tc.amount, tc.claimants, tb)
			assert.True(t, tc.wantErr.Is(err), "want %v, got %+v", tc.wantErr, err)

			assert.Equal(t, before, f.balance(t, f.depositor))
			assert.Equal(t, held, f.balance(t, Account(f.instance)))
			f.assertInvariants(t)
		})
	}
}

func TestDepositUnknownToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Deposit(f.db, f.instance, f.depositor, token.TokenAddress("NOPE"), coin.NewAmount(1), nil, TimeBound{})
	assert.True(t, token.ErrUnknownToken.Is(err), "%+v", err)
	_, err = f.ctrl.Balance(f.db, f.instance)
	assert.True(t, ErrNotFunded.Is(err), "%+v", err)
}

func TestClaimTimeBound(t *testing.T) {
	const ts = 5000
	cases := map[string]struct {
		kind    TimeBoundKind
		now     weave.UnixTime
		wantErr *errors.Error
	}{
		"before, earlier":     {kind: Before, now: ts - 1},
		"before, boundary":    {kind: Before, now: ts},
		"before, too late":    {kind: Before, now: ts + 1, wantErr: ErrTimeBoundViolation},
		"after, too early":    {kind: After, now: ts - 1, wantErr: ErrTimeBoundViolation},
		"after, boundary":     {kind: After, now: ts},
		"after, much later":   {kind: After, now: weave.MaxUnixTime},
		"before, epoch":       {kind: Before, now: 0},
		"after, at the epoch": {kind: After, now: 0, wantErr: ErrTimeBoundViolation},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			claimant := weavetest.NewCondition().Address()
			f.approve(t, 700)
			require.NoError(t, f.deposit(700, []weave.Address{claimant}, TimeBound{Kind: tc.kind, Timestamp: ts}))

			ctrl := NewController(NewFixedClock(tc.now), f.ledger)
			_, err := ctrl.Claim(context.Background(), f.db, f.instance, claimant)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "want %v, got %+v", tc.wantErr, err)
				assert.True(t, f.balance(t, claimant).IsZero())
				assert.Equal(t, coin.NewAmount(700), f.balance(t, Account(f.instance)))
			} else {
				require.NoError(t, err)
				assert.Equal(t, coin.NewAmount(700), f.balance(t, claimant))
			}
			f.assertInvariants(t)
		})
	}
}

func TestClaimEligibilityIsCheckedFirst(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	stranger := weavetest.NewCondition().Address()
	f.approve(t, 10)
	require.NoError(t, f.deposit(10, []weave.Address{claimant}, TimeBound{Kind: Before, Timestamp: 100}))

	// Out of the time bound, but a stranger is told it is not eligible.
	_, err := f.ctrl.Claim(context.Background(), f.db, f.instance, stranger)
	assert.True(t, ErrNotEligible.Is(err), "%+v", err)
	_, err = f.ctrl.Claim(context.Background(), f.db, f.instance, claimant)
	assert.True(t, ErrTimeBoundViolation.Is(err), "%+v", err)
	f.assertInvariants(t)
}

func TestZeroAmountWithoutClaimants(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.deposit(0, nil, TimeBound{Kind: After, Timestamp: 0}))
	f.assertInvariants(t)

	ok, err := f.ctrl.IsInitialized(f.db, f.instance)
	require.NoError(t, err)
	assert.True(t, ok)

	err = f.deposit(0, nil, TimeBound{Kind: After, Timestamp: 0})
	assert.True(t, ErrAlreadyFunded.Is(err), "%+v", err)

	// Nobody can ever claim it.
	_, err = f.ctrl.Claim(context.Background(), f.db, f.instance, f.depositor)
	assert.True(t, ErrNotEligible.Is(err), "%+v", err)
}

func TestReinitialize(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	tb := TimeBound{Kind: After, Timestamp: 12000}

	f.approve(t, 300)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.deposit(100, []weave.Address{claimant}, tb))
		f.assertInvariants(t)
		_, err := f.ctrl.Claim(context.Background(), f.db, f.instance, claimant)
		require.NoError(t, err)
		f.assertInvariants(t)
	}
	assert.Equal(t, coin.NewAmount(300), f.balance(t, claimant))
	assert.Equal(t, coin.NewAmount(mintAmount-300), f.balance(t, f.depositor))
}

func TestClaimTransferFailure(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	f.approve(t, 10)
	require.NoError(t, f.deposit(10, []weave.Address{claimant}, TimeBound{Kind: After}))

	ctrl := NewController(f.clock, &failingLedger{AssetLedger: f.ledger})
	_, err := ctrl.Claim(context.Background(), f.db, f.instance, claimant)
	assert.True(t, ErrTransferFailed.Is(err), "%+v", err)

	rec, err := f.ctrl.Balance(f.db, f.instance)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(10), rec.Amount)
	f.assertInvariants(t)
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	f.approve(t, 10)
	require.NoError(t, f.deposit(10, []weave.Address{claimant}, TimeBound{Kind: After}))
	f.assertInvariants(t)

	// Funds written directly to the escrow account break conservation.
	stray := &token.Balance{Metadata: &weave.Metadata{Schema: 1}, Amount: coin.NewAmount(11)}
	require.NoError(t, token.NewBalanceBucket().Put(f.db, token.BalanceKey(f.token, Account(f.instance)), stray))
	err := f.ctrl.CheckInvariants(f.db, f.instance, f.token)
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	// A record without its flag.
	require.NoError(t, NewFlagBucket().Delete(f.db, f.instance))
	err = f.ctrl.CheckInvariants(f.db, f.instance, f.token)
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	// Funds held by an unfunded instance.
	require.NoError(t, NewRecordBucket().Delete(f.db, f.instance))
	err = f.ctrl.CheckInvariants(f.db, f.instance, f.token)
	assert.True(t, errors.ErrState.Is(err), "%+v", err)
}

func TestEscrowAccountRefusesDirectCredits(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	account := Account(f.instance)

	require.NoError(t, f.ctrl.GuardAccount(f.db, account))
	f.approve(t, 100)
	require.NoError(t, f.deposit(100, []weave.Address{claimant}, TimeBound{Kind: After}))
	f.assertInvariants(t)

	err := f.ctrl.GuardAccount(f.db, account)
	assert.True(t, ErrReservedAccount.Is(err), "%+v", err)
	require.NoError(t, f.ctrl.GuardAccount(f.db, claimant))

	err = f.ledger.Transfer(f.db, f.token, f.depositor, account, coin.NewAmount(5))
	assert.True(t, ErrReservedAccount.Is(err), "%+v", err)
	tok, err := f.ledger.Token(f.db, f.token)
	require.NoError(t, err)
	err = f.ledger.Mint(f.db, f.token, tok.Admin, account, coin.NewAmount(5))
	assert.True(t, ErrReservedAccount.Is(err), "%+v", err)
	spender := weavetest.NewCondition().Address()
	require.NoError(t, f.ledger.Approve(f.db, f.token, f.depositor, spender, coin.NewAmount(5)))
	err = f.ledger.TransferFrom(f.db, f.token, spender, f.depositor, account, coin.NewAmount(5))
	assert.True(t, ErrReservedAccount.Is(err), "%+v", err)

	assert.Equal(t, coin.NewAmount(100), f.balance(t, account))
	f.assertInvariants(t)

	_, err = f.ctrl.Claim(context.Background(), f.db, f.instance, claimant)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(100), f.balance(t, claimant))
	f.assertInvariants(t)

	// The account stays reserved once the instance is cleared.
	err = f.ledger.Transfer(f.db, f.token, f.depositor, account, coin.NewAmount(5))
	assert.True(t, ErrReservedAccount.Is(err), "%+v", err)
	f.assertInvariants(t)
}

func TestDepositRejectsPrefundedAccount(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()

	// The account of an instance that was never funded is not indexed yet.
	require.NoError(t, f.ledger.Transfer(f.db, f.token, f.depositor, Account(f.instance), coin.NewAmount(5)))
	f.approve(t, 100)
	err := f.deposit(100, []weave.Address{claimant}, TimeBound{Kind: After})
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	_, err = f.ctrl.Balance(f.db, f.instance)
	assert.True(t, ErrNotFunded.Is(err), "%+v", err)
	assert.Equal(t, coin.NewAmount(mintAmount-5), f.balance(t, f.depositor))
}

func TestInstancesAreIndependent(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	other := []byte("instance-2")

	f.approve(t, 10)
	require.NoError(t, f.ledger.Approve(f.db, f.token, f.depositor, Account(other), coin.NewAmount(20)))
	require.NoError(t, f.deposit(10, []weave.Address{claimant}, TimeBound{Kind: After}))
	_, err := f.ctrl.Deposit(f.db, other, f.depositor, f.token, coin.NewAmount(20), []weave.Address{claimant}, TimeBound{Kind: After})
	require.NoError(t, err)

	_, err = f.ctrl.Claim(context.Background(), f.db, other, claimant)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(20), f.balance(t, claimant))
	f.assertInvariants(t)
	require.NoError(t, f.ctrl.CheckInvariants(f.db, other, f.token))

	rec, err := f.ctrl.Balance(f.db, f.instance)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(10), rec.Amount)
}

type failingLedger struct {
	AssetLedger
}

func (failingLedger) Transfer(weave.KVStore, weave.Address, weave.Address, weave.Address, coin.Amount) error {
	return errors.Wrap(errors.ErrDatabase, "ledger unavailable")
}
