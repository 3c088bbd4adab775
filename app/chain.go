package app

import (
	"reflect"

	weave "github.com/iov-one/timelock"
)

/*
Decorators is an ordered list of decorators, waiting for the handler they
wrap. The first decorator is the outermost one:

	app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
type Decorators struct {
	chain []weave.Decorator
}

// ChainDecorators returns the list of given decorators. Nil values are
// skipped, so optional decorators can be passed unconditionally.
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new list with the decorators appended. The receiver is not
// modified.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	res := make([]weave.Decorator, 0, len(d.chain)+len(chain))
	res = append(res, d.chain...)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			res = append(res, dec)
		}
	}
	return Decorators{chain: res}
}

func isNilDecorator(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler passing every call through all decorators,
// in order, before it reaches h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link binds a decorator to the handler it wraps.
type link struct {
	dec  weave.Decorator
	next weave.Handler
}

var _ weave.Handler = link{}

func (l link) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
