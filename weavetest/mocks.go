package weavetest

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// calls counts invocations of the check and deliver paths.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Handler returns the configured results, or errors when set.
type Handler struct {
	calls

	CheckResult weave.CheckResult
	CheckErr    error

	DeliverResult weave.DeliverResult
	DeliverErr    error
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator passes the call to the next handler unless an error is set.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Tx carries a single message. It cannot be serialized.
type Tx struct {
	Msg weave.Msg
	// Err is returned by GetMsg together with the message.
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "weavetest.Tx is not serializable")
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "weavetest.Tx is not serializable")
}

// Msg is routed by RoutePath and serializes to the Serialized bytes.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err is returned by Marshal and Unmarshal.
	Err error
	// ValidErr is returned by Validate.
	ValidErr error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

func (m *Msg) Validate() error {
	return m.ValidErr
}
