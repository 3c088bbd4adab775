package orm

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr weave.Iterator) ([]weave.Model, error) {
	defer itr.Close()

	var res []weave.Model
	for itr.Valid() {
		res = append(res, weave.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil && !errors.ErrIteratorDone.Is(err) {
			return nil, err
		}
	}
	return res, nil
}

func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	itr, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ConsumeIterator(itr)
}

// prefixRangeEnd returns the exclusive end of the key range that contains
// all keys starting with given prefix. Nil means no upper bound.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
