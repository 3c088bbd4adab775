package utils

import (
	weave "github.com/iov-one/timelock"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key under which ActionTagger stores the message path.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with the path
// of its message, for example action=escrow/claim, so that clients can
// subscribe to a single kind of operation.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails early if the message cannot be read, before any handler
// runs.
func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
