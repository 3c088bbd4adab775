package x

import (
	weave "github.com/iov-one/timelock"
)

// Authenticator reveals which conditions authorized the current
// transaction. Handlers receive it in their constructor, so that the source
// of authentication (signatures, or a mock in tests) can be swapped.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled for the context.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress returns true if any fulfilled condition has given
	// address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth authenticates everything that any of the grouped
// authenticators does.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together many authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions returns the conditions of all authenticators, in order.
// A condition revealed more than once is returned once.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

func hasCondition(conds []weave.Condition, c weave.Condition) bool {
	for _, have := range conds {
		if have.Equals(c) {
			return true
		}
	}
	return false
}
