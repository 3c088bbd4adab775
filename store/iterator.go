package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/timelock/errors"
)

// collectRange returns all btree items within [start, end) in ascending
// order. A nil boundary is open.
func collectRange(bt *btree.BTree, start, end []byte) []cached {
	var res []cached
	add := func(item btree.Item) bool {
		res = append(res, item.(cached))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(cached{key: end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(cached{key: start}, add)
	default:
		bt.AscendRange(cached{key: start}, cached{key: end}, add)
	}
	return res
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// cacheIterator merges a snapshot of the cached items with the iterator of
// the backing store, taking into consideration overwrites and deletes.
type cacheIterator struct {
	items   []cached
	idx     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []cached, parent Iterator, reverse bool) (*cacheIterator, error) {
	it := &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// Valid implements Iterator and returns true iff it can be read
func (i *cacheIterator) Valid() bool {
	return i.firstKey() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, ErrIteratorDone is returned.
func (i *cacheIterator) Next() error {
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.Wrap(errors.ErrIteratorDone, "cache iterator")
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *cacheIterator) Key() []byte {
	switch i.firstKey() {
	case us, both:
		return i.current().key
	case parent:
		return i.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *cacheIterator) Value() []byte {
	switch i.firstKey() {
	case us, both:
		return i.current().value
	case parent:
		return i.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *cacheIterator) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipDeleted jumps over all deleted entries of the cache, together
// with the parent entries they shadow.
func (i *cacheIterator) skipDeleted() error {
	for {
		src := i.firstKey()
		if src != us && src != both {
			return nil
		}
		if !i.current().deleted {
			return nil
		}
		i.idx++
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

func (i *cacheIterator) current() cached {
	return i.items[i.idx]
}

func (i *cacheIterator) cacheValid() bool {
	return i.idx < len(i.items)
}

func (i *cacheIterator) parentValid() bool {
	return i.parent != nil && i.parent.Valid()
}

// firstKey selects the iterator that holds the next key in iteration order.
func (i *cacheIterator) firstKey() source {
	if !i.parentValid() {
		if !i.cacheValid() {
			return none
		}
		return us
	} else if !i.cacheValid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.current().key)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
