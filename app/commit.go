package app

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CommitStore keeps the last committed state together with two working
// copies of it. Transactions of the current block are delivered to one,
// mempool checks run against the other. Both copies are recreated on every
// commit, so check results never leak into the next block.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest version of the store.
func NewCommitStore(db weave.CommitKVStore) (*CommitStore, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: db}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the last commit. Pending
// checks are dropped. Callers must serialize access.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// Snapshot returns a read view of the last committed state. It must be
// discarded after use.
func (cs *CommitStore) Snapshot() weave.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// CheckStore is the working copy used by CheckTx.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore is the working copy used by InitChain and DeliverTx.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// _tl: prefixes internal application data.
var chainIDKey = []byte("_tl:chain_id")

// loadChainID returns the chain ID written by the genesis, or an empty
// string before the genesis was loaded.
func loadChainID(db weave.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

// saveChainID writes the chain ID once. It cannot be changed later.
func saveChainID(db weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	switch have, err := loadChainID(db); {
	case err != nil:
		return err
	case have != "":
		return errors.Wrapf(errors.ErrState, "chain id already set to %q", have)
	}
	if err := db.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
