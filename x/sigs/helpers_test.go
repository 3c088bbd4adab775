package sigs

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/weavetest"
)

// stdTx is a signed transaction carrying a mock message.
type stdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{Tx: weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/mock", Serialized: payload}}}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []weave.Condition
}

var _ weave.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}
