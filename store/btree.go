package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// btreeDegree is small because caches live for a single block or
// transaction and rarely hold many entries.
const btreeDegree = 2

// BTreeCacheable adds btree based cache wrapping to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store without any persistence. Use it in
// tests.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// ShowOpser exposes all operations performed on a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in memory store together with a record of all
// writes done to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var empty EmptyKVStore
	batch := NewNonAtomicBatch(empty)
	return NewBTreeCacheWrap(empty, batch, nil), batch
}

// BTreeCacheWrap keeps all writes in a btree on top of a read only store.
// Writes are also recorded in a batch, that is flushed to the underlying
// store on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv, writing through given batch.
// free may be nil. Pass the list of a parent cache to share node
// allocations.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all changes to the underlying store and clears the cache.
func (b BTreeCacheWrap) Write() error {
	defer b.Discard()
	return b.batch.Write()
}

// Discard drops all cached changes.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cached{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cached{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	c, ok := b.lookup(key)
	if !ok {
		return b.back.Get(key)
	}
	if c.deleted {
		return nil, nil
	}
	return c.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	c, ok := b.lookup(key)
	if !ok {
		return b.back.Has(key)
	}
	return !c.deleted, nil
}

// lookup returns the cached entry for the key. The second value is false if
// the key was never written through this cache.
func (b BTreeCacheWrap) lookup(key []byte) (cached, bool) {
	item := b.bt.Get(cached{key: key})
	if item == nil {
		return cached{}, false
	}
	return item.(cached), true
}

// Iterator returns the merged content of the cache and the backing store in
// ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(collectRange(b.bt, start, end), parent, false)
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectRange(b.bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newCacheIterator(items, parent, true)
}

// cached is a single btree entry. A deleted entry shadows the value of the
// backing store.
type cached struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cached{}

func (c cached) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cached).key) < 0
}
