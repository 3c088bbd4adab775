package escrow

import (
	"context"
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
	"github.com/iov-one/timelock/x/token"
)

func TestHandlers(t *testing.T) {
	admin := weavetest.NewCondition()
	depositor := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	meta := &weave.Metadata{Schema: 1}
	xlm := token.TokenAddress("XLM")
	id := []byte("my-escrow")

	deposit := &DepositMsg{
		Metadata:   meta,
		InstanceID: id,
		Depositor:  depositor.Address(),
		Token:      xlm,
		Amount:     coin.NewAmount(400),
		Claimants:  []weave.Address{alice.Address(), bob.Address()},
		TimeBound:  TimeBound{Kind: Before, Timestamp: 2000},
	}
	claim := &ClaimMsg{Metadata: meta, InstanceID: id, Claimant: bob.Address()}

	cases := map[string]struct {
		Prep           []weave.Msg
		PrepSigners    []weave.Condition
		Approve        int64
		Now            weave.UnixTime
		Msg            weave.Msg
		Signers        []weave.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantEscrow     int64
		WantBob        int64
	}{
		"deposit": {
			Approve:    400,
			Msg:        deposit,
			Signers:    []weave.Condition{depositor},
			WantEscrow: 400,
		},
		"deposit must be signed by the depositor": {
			Approve:        400,
			Msg:            deposit,
			Signers:        []weave.Condition{alice},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"deposit without allowance": {
			Msg:            deposit,
			Signers:        []weave.Condition{depositor},
			WantDeliverErr: token.ErrInsufficientAllowance,
		},
		"deposit twice": {
			Approve:        800,
			Prep:           []weave.Msg{deposit},
			PrepSigners:    []weave.Condition{depositor},
			Msg:            deposit,
			Signers:        []weave.Condition{depositor},
			WantCheckErr:   ErrAlreadyFunded,
			WantDeliverErr: ErrAlreadyFunded,
			WantEscrow:     400,
		},
		"claim": {
			Approve:     400,
			Prep:        []weave.Msg{deposit},
			PrepSigners: []weave.Condition{depositor},
			Msg:         claim,
			Signers:     []weave.Condition{bob},
			WantBob:     400,
		},
		"claim at the time bound": {
			Approve:     400,
			Now:         2000,
			Prep:        []weave.Msg{deposit},
			PrepSigners: []weave.Condition{depositor},
			Msg:         claim,
			Signers:     []weave.Condition{bob},
			WantBob:     400,
		},
		"claim after the time bound": {
			Approve:        400,
			Now:            2001,
			Prep:           []weave.Msg{deposit},
			PrepSigners:    []weave.Condition{depositor},
			Msg:            claim,
			Signers:        []weave.Condition{bob},
			WantCheckErr:   ErrTimeBoundViolation,
			WantDeliverErr: ErrTimeBoundViolation,
			WantEscrow:     400,
		},
		"claim must be signed by the claimant": {
			Approve:        400,
			Prep:           []weave.Msg{deposit},
			PrepSigners:    []weave.Condition{depositor},
			Msg:            claim,
			Signers:        []weave.Condition{alice},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantEscrow:     400,
		},
		"claim by a stranger": {
			Approve:        400,
			Prep:           []weave.Msg{deposit},
			PrepSigners:    []weave.Condition{depositor},
			Msg:            &ClaimMsg{Metadata: meta, InstanceID: id, Claimant: depositor.Address()},
			Signers:        []weave.Condition{depositor},
			WantCheckErr:   ErrNotEligible,
			WantDeliverErr: ErrNotEligible,
			WantEscrow:     400,
		},
		"claim of an unfunded instance": {
			Msg:            claim,
			Signers:        []weave.Condition{bob},
			WantCheckErr:   ErrNotFunded,
			WantDeliverErr: ErrNotFunded,
		},
		"claim twice": {
			Approve:        400,
			Prep:           []weave.Msg{deposit, claim},
			PrepSigners:    []weave.Condition{depositor, bob},
			Msg:            claim,
			Signers:        []weave.Condition{bob},
			WantCheckErr:   ErrNotFunded,
			WantDeliverErr: ErrNotFunded,
			WantBob:        400,
		},
		"invalid message": {
			Msg:            &DepositMsg{Metadata: meta, InstanceID: id, Depositor: depositor.Address(), Token: xlm, Amount: coin.NewAmount(-1)},
			Signers:        []weave.Condition{depositor},
			WantCheckErr:   ErrNegativeAmount,
			WantDeliverErr: ErrNegativeAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ledger := token.NewLedger()
			_, err := ledger.CreateToken(db, admin.Address(), 0, "Lumens", "XLM")
			assert.Nil(t, err)
			assert.Nil(t, ledger.Mint(db, xlm, admin.Address(), depositor.Address(), coin.NewAmount(1000)))
			if tc.Approve != 0 {
				assert.Nil(t, ledger.Approve(db, xlm, depositor.Address(), Account(id), coin.NewAmount(tc.Approve)))
			}

			now := tc.Now
			if now == 0 {
				now = 1500
			}
			auth := &weavetest.CtxAuth{Key: "auth"}
			rt := testRouter{}
			ctrl := NewController(BlockClock{}, ledger)
			RegisterRoutes(rt, auth, ctrl)

			for i, msg := range tc.Prep {
				ctx := auth.SetConditions(weavetest.BlockCtx(1, now), tc.PrepSigners[i])
				tx := &weavetest.Tx{Msg: msg}
				if _, err := rt[msg.Path()].Deliver(ctx, db, tx); err != nil {
					t.Fatalf("cannot deliver prep message %d: %+v", i, err)
				}
			}

			ctx := auth.SetConditions(weavetest.BlockCtx(2, now), tc.Signers...)
			tx := &weavetest.Tx{Msg: tc.Msg}
			h := rt[tc.Msg.Path()]

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			cache = db.CacheWrap()
			_, err = h.Deliver(ctx, cache, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil {
				assert.Nil(t, cache.Write())
			} else {
				cache.Discard()
			}

			held, err := ledger.BalanceOf(db, xlm, Account(id))
			assert.Nil(t, err)
			assert.Equal(t, coin.NewAmount(tc.WantEscrow), held)
			got, err := ledger.BalanceOf(db, xlm, bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, coin.NewAmount(tc.WantBob), got)
			assert.Nil(t, ctrl.CheckInvariants(db, id, xlm))
		})
	}
}

func TestQueryRecords(t *testing.T) {
	f := newFixture(t)
	claimant := weavetest.NewCondition().Address()
	f.approve(t, 5)
	_, err := f.ctrl.Deposit(f.db, f.instance, f.depositor, f.token, coin.NewAmount(5), []weave.Address{claimant}, TimeBound{Kind: After})
	assert.Nil(t, err)

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/escrows")
	if h == nil {
		t.Fatal("no query handler")
	}
	models, err := h.Query(f.db, weave.KeyQueryMod, f.instance)
	assert.Nil(t, err)
	if len(models) != 1 {
		t.Fatalf("want one record, got %d", len(models))
	}

	var rec ClaimableBalance
	assert.Nil(t, rec.Unmarshal(models[0].Value))
	assert.Equal(t, coin.NewAmount(5), rec.Amount)
	assert.Equal(t, []weave.Address{claimant}, rec.Claimants)
}

func TestBlockClock(t *testing.T) {
	now, err := BlockClock{}.Now(weavetest.BlockCtx(1, 777))
	assert.Nil(t, err)
	assert.Equal(t, weave.UnixTime(777), now)

	_, err = BlockClock{}.Now(context.Background())
	assert.IsErr(t, errors.ErrHuman, err)
}

type testRouter map[string]weave.Handler

func (r testRouter) Handle(path string, h weave.Handler) {
	r[path] = h
}
