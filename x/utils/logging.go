package utils

import (
	"time"

	weave "github.com/iov-one/timelock"
)

// Logging writes a log entry for every processed transaction. Failures are
// logged at error level, successful deliveries at info and successful
// checks at debug level.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	entry := txLogEntry{started: time.Now()}
	res, err := next.Check(ctx, db, tx)
	if res != nil {
		entry.msg = res.Log
	}
	entry.err = err
	entry.write(ctx)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	entry := txLogEntry{started: time.Now(), deliver: true}
	res, err := next.Deliver(ctx, db, tx)
	if res != nil {
		entry.msg = res.Log
	}
	entry.err = err
	entry.write(ctx)
	return res, err
}

type txLogEntry struct {
	started time.Time
	deliver bool
	msg     string
	err     error
}

// write emits the entry even if the message is empty, as the duration and
// the error are still worth recording.
func (e txLogEntry) write(ctx weave.Context) {
	logger := weave.GetLogger(ctx).With("duration", time.Since(e.started)/time.Microsecond)
	switch {
	case e.err != nil:
		logger.Error(e.msg, "err", e.err)
	case e.deliver:
		logger.Info(e.msg)
	default:
		logger.Debug(e.msg)
	}
}
