package escrow

import (
	"sync"

	weave "github.com/iov-one/timelock"
)

// Clock provides the current time. Consecutive readings never decrease.
type Clock interface {
	Now(ctx weave.Context) (weave.UnixTime, error)
}

// BlockClock reads the time of the block being processed.
type BlockClock struct{}

var _ Clock = BlockClock{}

func (BlockClock) Now(ctx weave.Context) (weave.UnixTime, error) {
	t, err := weave.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return weave.AsUnixTime(t), nil
}

// FixedClock returns the time it was set to. It only moves when advanced.
type FixedClock struct {
	mu  sync.Mutex
	now weave.UnixTime
}

var _ Clock = (*FixedClock)(nil)

// NewFixedClock returns a clock stopped at given time.
func NewFixedClock(now weave.UnixTime) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now(weave.Context) (weave.UnixTime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now, nil
}

// Advance moves the clock forward by given number of seconds. The time
// saturates at weave.MaxUnixTime.
func (c *FixedClock) Advance(seconds uint64) weave.UnixTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddSeconds(seconds)
	return c.now
}
