package orm

import (
	"github.com/iov-one/timelock/errors"
)

// Orm reserves 100~109 error codes

// ErrInvalidBucket is returned when a stored value cannot be loaded by the
// bucket it is read through.
var ErrInvalidBucket = errors.Register(100, "invalid bucket")
