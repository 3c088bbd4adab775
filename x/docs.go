/*
Package x holds what the timelock extensions share. Each sub-package is an
extension providing messages, handlers, decorators or queries:

	x/sigs    signature verification and replay protection
	x/token   fungible token ledger
	x/escrow  claimable balance escrow
	x/utils   decorators used by every application chain

Handlers are given an Authenticator instead of depending on x/sigs
directly.
*/
package x
