package app

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
)

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results"`
}

type wireResultSet ResultSet

func (m *wireResultSet) Reset()         { *m = wireResultSet{} }
func (m *wireResultSet) String() string { return proto.CompactTextString(m) }
func (*wireResultSet) ProtoMessage()    {}

func (r *ResultSet) Marshal() ([]byte, error) {
	return codec.Marshal((*wireResultSet)(r))
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireResultSet)(r))
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]weave.Model, len(kref))
	for i := range mods {
		mods[i] = weave.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o weave.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
