package escrow

import "github.com/iov-one/timelock/errors"

var (
	ErrNegativeAmount     = errors.Register(1100, "negative amount")
	ErrAlreadyFunded      = errors.Register(1101, "already funded")
	ErrTooManyClaimants   = errors.Register(1102, "too many claimants")
	ErrDuplicateClaimant  = errors.Register(1103, "duplicate claimant")
	ErrNotFunded          = errors.Register(1104, "not funded")
	ErrNotEligible        = errors.Register(1105, "not eligible")
	ErrTimeBoundViolation = errors.Register(1106, "time bound violation")
	ErrTransferFailed     = errors.Register(1107, "transfer failed")
	ErrReservedAccount    = errors.Register(1108, "reserved account")
)
