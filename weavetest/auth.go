package weavetest

import (
	"context"

	weave "github.com/iov-one/timelock"
)

// Auth authenticates a fixed set of conditions, regardless of the context.
// Signer and Signers are merged.
type Auth struct {
	Signer  weave.Condition
	Signers []weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	conds := make([]weave.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates conditions previously attached to the context with
// SetConditions. Instances with a different Key do not see each other's
// conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context authenticating given conditions. Any
// condition set before under the same key is replaced.
func (a *CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]weave.Condition)
	return conds
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []weave.Condition, addr weave.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
