package sigs

import "github.com/iov-one/timelock/errors"

var (
	// ErrInvalidSequence is returned when a signature declares a sequence
	// other than the next expected one.
	ErrInvalidSequence = errors.Register(1000, "invalid sequence")
)
