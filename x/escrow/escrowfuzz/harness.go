/*
Package escrowfuzz drives the escrow state machine with random sequences of
operations and verifies its invariants after every step.

Fuzz is an entry point compatible with go-fuzz. Run can be used directly with
inputs generated by any other means.
*/
package escrowfuzz

import (
	"context"
	"fmt"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/token"
)

// Step kinds. The kind of a step is its Kind value modulo numKinds.
const (
	StepApprove = iota
	StepDeposit
	StepClaim
	StepTransfer
	StepAdvanceTime
	numKinds
)

// Input describes a single run.
type Input struct {
	StartTime uint64
	// Mint is the amount given to the depositor. The sign bit is ignored.
	Mint [16]byte
	// Claimants is the number of addresses named by every deposit,
	// modulo 13 so that some deposits name too many.
	Claimants uint8
	// Outsider adds an address that is never a claimant.
	Outsider bool
	Steps    []Step
}

// Step is a single operation. Only the fields relevant to the kind are
// used.
type Step struct {
	Kind          uint8
	Amount        [16]byte
	TimeBoundKind uint8
	Timestamp     uint64
	Index         uint64
	Seconds       uint64
}

func (s Step) String() string {
	switch s.Kind % numKinds {
	case StepApprove:
		return fmt.Sprintf("approve %s", amount(s.Amount))
	case StepDeposit:
		return fmt.Sprintf("deposit %s %s %d", amount(s.Amount), timeBoundKind(s.TimeBoundKind), unixTime(s.Timestamp))
	case StepClaim:
		return fmt.Sprintf("claim #%d", s.Index)
	case StepTransfer:
		return fmt.Sprintf("transfer %s", amount(s.Amount))
	default:
		return fmt.Sprintf("advance %ds", s.Seconds)
	}
}

func amount(raw [16]byte) coin.Amount {
	a, _ := coin.AmountFromBytes(raw[:])
	return a
}

func timeBoundKind(k uint8) escrow.TimeBoundKind {
	return escrow.TimeBoundKind(k % 2)
}

// unixTime maps the whole uint64 range onto non negative times.
func unixTime(v uint64) weave.UnixTime {
	return weave.UnixTime(v >> 1)
}

type harness struct {
	in        Input
	db        weave.CacheableKVStore
	ledger    *token.Ledger
	clock     *escrow.FixedClock
	ctrl      *escrow.Controller
	svc       *escrow.Escrow
	ctx       weave.Context
	token     weave.Address
	instance  []byte
	start     weave.UnixTime
	mint      coin.Amount
	depositor weave.Address
	claimants []weave.Address
	all       []weave.Address
	funded    bool
	// reserved is set once the instance was funded.
	reserved bool
}

func newHarness(in Input) (*harness, error) {
	mintRaw := in.Mint
	mintRaw[0] &= 0x7f

	h := &harness{
		in:        in,
		db:        store.MemStore(),
		ledger:    token.NewLedger(),
		instance:  []byte("fuzz"),
		start:     unixTime(in.StartTime),
		mint:      amount(mintRaw),
		depositor: weave.NewCondition("fuzz", "depositor", nil).Address(),
	}
	h.clock = escrow.NewFixedClock(h.start)
	h.ctrl = escrow.NewController(h.clock, h.ledger)

	conds := []weave.Condition{weave.NewCondition("fuzz", "depositor", nil)}
	for i := 0; i < int(in.Claimants%13); i++ {
		c := weave.NewCondition("fuzz", "claimant", []byte{byte(i)})
		conds = append(conds, c)
		h.claimants = append(h.claimants, c.Address())
	}
	h.all = append(h.all, h.claimants...)
	if in.Outsider {
		c := weave.NewCondition("fuzz", "outsider", nil)
		conds = append(conds, c)
		h.all = append(h.all, c.Address())
	}

	// Every participant is authorized, only the state machine rules are
	// exercised.
	auth := &weavetest.Auth{Signers: conds}
	h.svc = escrow.NewEscrow(h.db, h.ctrl, auth, nil)
	h.ctx = context.Background()

	admin := weave.NewCondition("fuzz", "admin", nil).Address()
	tok, err := h.ledger.CreateToken(h.db, admin, 7, "Fuzz", "FUZZ")
	if err != nil {
		return nil, err
	}
	h.token = tok
	if err := h.ledger.Mint(h.db, tok, admin, h.depositor, h.mint); err != nil {
		return nil, err
	}
	return h, nil
}

// Run executes all steps of the input and returns the first invariant
// violation found. Rejected operations are not violations.
func Run(in Input) error {
	h, err := newHarness(in)
	if err != nil {
		return fmt.Errorf("setup: %v", err)
	}
	if err := h.checkInvariants(); err != nil {
		return fmt.Errorf("setup: %v", err)
	}
	for i, s := range in.Steps {
		if err := h.step(s); err != nil {
			return fmt.Errorf("step %d (%s): %v", i, s, err)
		}
		if err := h.checkInvariants(); err != nil {
			return fmt.Errorf("step %d (%s): %v", i, s, err)
		}
	}
	return nil
}

func (h *harness) step(s Step) error {
	switch s.Kind % numKinds {
	case StepApprove:
		return h.approve(amount(s.Amount))
	case StepDeposit:
		tb := escrow.TimeBound{Kind: timeBoundKind(s.TimeBoundKind), Timestamp: unixTime(s.Timestamp)}
		return h.deposit(amount(s.Amount), tb)
	case StepClaim:
		return h.claim(s.Index)
	case StepTransfer:
		return h.transfer(amount(s.Amount))
	default:
		return h.advance(s.Seconds)
	}
}

func (h *harness) approve(a coin.Amount) error {
	spender := escrow.Account(h.instance)
	before, err := h.ledger.Allowance(h.db, h.token, h.depositor, spender)
	if err != nil {
		return err
	}
	err = h.svc.Atomic(func(db weave.KVStore) error {
		return h.ledger.Approve(db, h.token, h.depositor, spender, a)
	})
	_, overflow := before.Add(a)
	wantOK := !a.IsNegative() && overflow == nil
	if wantOK != (err == nil) {
		return fmt.Errorf("approve of %s over %s: want success %v, got %v", a, before, wantOK, err)
	}
	if err != nil {
		after, aerr := h.ledger.Allowance(h.db, h.token, h.depositor, spender)
		if aerr != nil {
			return aerr
		}
		if after != before {
			return fmt.Errorf("failed approve changed the allowance from %s to %s", before, after)
		}
	}
	return nil
}

func (h *harness) deposit(a coin.Amount, tb escrow.TimeBound) error {
	held, err := h.escrowBalance()
	if err != nil {
		return err
	}
	err = h.svc.Deposit(h.ctx, h.instance, h.depositor, h.token, a, h.claimants, tb)
	if err == nil {
		if h.funded {
			return fmt.Errorf("deposit succeeded on a funded instance")
		}
		if a.IsNegative() || len(h.claimants) > escrow.MaxClaimants {
			return fmt.Errorf("invalid deposit accepted")
		}
		rec, err := h.svc.Balance(h.instance)
		if err != nil {
			return fmt.Errorf("no record after deposit: %v", err)
		}
		if rec.Amount != a {
			return fmt.Errorf("recorded %s, deposited %s", rec.Amount, a)
		}
		h.funded = true
		h.reserved = true
		return nil
	}
	after, berr := h.escrowBalance()
	if berr != nil {
		return berr
	}
	if after != held {
		return fmt.Errorf("failed deposit changed the escrow balance from %s to %s", held, after)
	}
	return nil
}

// transfer sends tokens from the depositor straight to the escrow account.
// Before the first deposit the account is not known to be an escrow one, so
// the step is skipped.
func (h *harness) transfer(a coin.Amount) error {
	if !h.reserved {
		return nil
	}
	held, err := h.escrowBalance()
	if err != nil {
		return err
	}
	err = h.svc.Atomic(func(db weave.KVStore) error {
		return h.ledger.Transfer(db, h.token, h.depositor, escrow.Account(h.instance), a)
	})
	if err == nil {
		return fmt.Errorf("transfer of %s to the escrow account accepted", a)
	}
	after, berr := h.escrowBalance()
	if berr != nil {
		return berr
	}
	if after != held {
		return fmt.Errorf("rejected transfer changed the escrow balance from %s to %s", held, after)
	}
	return nil
}

func (h *harness) claim(index uint64) error {
	if len(h.all) == 0 {
		return nil
	}
	claimant := h.all[index%uint64(len(h.all))]

	pre, err := h.escrowBalance()
	if err != nil {
		return err
	}
	preClaimant, err := h.ledger.BalanceOf(h.db, h.token, claimant)
	if err != nil {
		return err
	}
	now, _ := h.clock.Now(h.ctx)
	rec, recErr := h.svc.Balance(h.instance)

	_, err = h.svc.Claim(h.ctx, h.instance, claimant)

	post, berr := h.escrowBalance()
	if berr != nil {
		return berr
	}
	if err != nil {
		if post != pre {
			return fmt.Errorf("failed claim changed the escrow balance from %s to %s", pre, post)
		}
		return nil
	}

	if recErr != nil {
		return fmt.Errorf("claim succeeded without a record")
	}
	if !post.IsZero() {
		return fmt.Errorf("escrow account holds %s after claim", post)
	}
	if !contains(h.claimants, claimant) {
		return fmt.Errorf("claim by a non claimant succeeded")
	}
	if !rec.TimeBound.Contains(now) {
		return fmt.Errorf("claim at %d outside of %s %d succeeded", now, rec.TimeBound.Kind, rec.TimeBound.Timestamp)
	}
	got, err := h.ledger.BalanceOf(h.db, h.token, claimant)
	if err != nil {
		return err
	}
	want, err := preClaimant.Add(rec.Amount)
	if err != nil || got != want {
		return fmt.Errorf("claimant holds %s, want %s", got, want)
	}
	if _, err := h.svc.Balance(h.instance); err == nil {
		return fmt.Errorf("record present after claim")
	}
	h.funded = false
	return nil
}

func (h *harness) advance(seconds uint64) error {
	before, _ := h.clock.Now(h.ctx)
	after := h.clock.Advance(seconds)
	if after < before {
		return fmt.Errorf("time moved back from %d to %d", before, after)
	}
	return nil
}

func (h *harness) escrowBalance() (coin.Amount, error) {
	return h.ledger.BalanceOf(h.db, h.token, escrow.Account(h.instance))
}

func (h *harness) checkInvariants() error {
	if err := h.svc.CheckInvariants(h.instance, h.token); err != nil {
		return err
	}
	now, _ := h.clock.Now(h.ctx)
	if now < h.start {
		return fmt.Errorf("time %d before the start %d", now, h.start)
	}
	initialized, err := h.svc.IsInitialized(h.instance)
	if err != nil {
		return err
	}
	if initialized != h.funded {
		return fmt.Errorf("initialized %v, want %v", initialized, h.funded)
	}

	rec, err := h.svc.Balance(h.instance)
	if err != nil {
		held, berr := h.escrowBalance()
		if berr != nil {
			return berr
		}
		if !held.IsZero() {
			return fmt.Errorf("unfunded escrow holds %s", held)
		}
		return nil
	}
	if !rec.Token.Equals(h.token) {
		return fmt.Errorf("unexpected token %s", rec.Token)
	}
	if rec.Amount.IsNegative() || rec.Amount.Cmp(h.mint) > 0 {
		return fmt.Errorf("amount %s out of [0, %s]", rec.Amount, h.mint)
	}
	if len(rec.Claimants) > escrow.MaxClaimants {
		return fmt.Errorf("%d claimants", len(rec.Claimants))
	}
	if len(rec.Claimants) != len(h.claimants) {
		return fmt.Errorf("%d claimants, want %d", len(rec.Claimants), len(h.claimants))
	}
	for _, c := range h.claimants {
		if !contains(rec.Claimants, c) {
			return fmt.Errorf("claimant %s missing", c)
		}
	}
	return nil
}

func contains(addrs []weave.Address, a weave.Address) bool {
	for _, x := range addrs {
		if x.Equals(a) {
			return true
		}
	}
	return false
}
