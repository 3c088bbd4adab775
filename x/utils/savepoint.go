package utils

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written only if the call succeeds, so a failed transaction leaves no
// trace. A savepoint is inactive until enabled with OnCheck or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	var res *weave.CheckResult
	err := s.atomic(s.onCheck, db, func(db weave.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	var res *weave.DeliverResult
	err := s.atomic(s.onDeliver, db, func(db weave.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomic calls fn on a cache of db and writes the cache only if fn
// succeeds. If disabled or db cannot be cached, fn works on db directly.
func (Savepoint) atomic(enabled bool, db weave.KVStore, fn func(weave.KVStore) error) error {
	cacheable, ok := db.(weave.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
