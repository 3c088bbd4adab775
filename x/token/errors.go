package token

import (
	"github.com/iov-one/timelock/errors"
)

// Token extension reserves 1200~1209 error codes.
var (
	// ErrInsufficientBalance is returned when the source account does not
	// hold enough tokens to complete a transfer.
	ErrInsufficientBalance = errors.Register(1200, "insufficient balance")

	// ErrInsufficientAllowance is returned when a spender tries to move
	// more than it was approved for.
	ErrInsufficientAllowance = errors.Register(1201, "insufficient allowance")

	// ErrAllowanceOverflow is returned when an approval would raise the
	// allowance above the maximal amount value.
	ErrAllowanceOverflow = errors.Register(1202, "allowance overflow")

	// ErrUnknownToken is returned when the token does not exist.
	ErrUnknownToken = errors.Register(1203, "unknown token")
)
