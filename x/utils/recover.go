package utils

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery turns a panic of any handler further down the chain into an
// ErrPanic error. The panic is logged together with the message path.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

// recovered must be deferred directly for recover to catch the panic.
func recovered(ctx weave.Context, tx weave.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	path := "unknown"
	if tx != nil {
		if msg, e := tx.GetMsg(); e == nil && msg != nil {
			path = msg.Path()
		}
	}
	weave.GetLogger(ctx).Error("handler panic", "path", path, "panic", r)
}
