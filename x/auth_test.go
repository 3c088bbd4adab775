package x_test

import (
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
	"github.com/iov-one/timelock/x"
)

func TestChainAuth(t *testing.T) {
	a, b, c := weavetest.NewCondition(), weavetest.NewCondition(), weavetest.NewCondition()

	sigs := &weavetest.CtxAuth{Key: "sigs"}
	fixed := &weavetest.Auth{Signers: []weave.Condition{b, a}}

	ctx := sigs.SetConditions(weavetest.BlockCtx(1, 1), a)

	cases := map[string]struct {
		auth      x.Authenticator
		wantConds []weave.Condition
		wantAddrs map[string]bool
	}{
		"nothing chained": {
			auth:      x.ChainAuth(),
			wantConds: nil,
			wantAddrs: map[string]bool{"a": false, "b": false, "c": false},
		},
		"single authenticator": {
			auth:      x.ChainAuth(sigs),
			wantConds: []weave.Condition{a},
			wantAddrs: map[string]bool{"a": true, "b": false, "c": false},
		},
		"duplicates are returned once": {
			auth:      x.ChainAuth(sigs, fixed),
			wantConds: []weave.Condition{a, b},
			wantAddrs: map[string]bool{"a": true, "b": true, "c": false},
		},
		"nested chains": {
			auth:      x.ChainAuth(x.ChainAuth(fixed), &weavetest.Auth{Signer: c}),
			wantConds: []weave.Condition{b, a, c},
			wantAddrs: map[string]bool{"a": true, "b": true, "c": true},
		},
	}

	addrs := map[string]weave.Address{"a": a.Address(), "b": b.Address(), "c": c.Address()}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantConds, tc.auth.GetConditions(ctx))
			for key, want := range tc.wantAddrs {
				if got := tc.auth.HasAddress(ctx, addrs[key]); got != want {
					t.Errorf("address %s: want %v, got %v", key, want, got)
				}
			}
		})
	}
}
