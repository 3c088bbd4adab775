package app

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through a handler on top of the storage,
// genesis and query support of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an ABCI application decoding transactions with given
// decoder and processing them with the handler. In debug mode error
// responses carry full error messages.
func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx processes the transaction against the state of the current
// block.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, tx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return weave.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction for the mempool.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, tx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context extended
// with logging information about the call.
func (b BaseApp) prepare(raw []byte, call string) (weave.Context, weave.Tx, error) {
	tx, err := b.decode(raw)
	if err != nil {
		return nil, nil, err
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", call, "path", weave.GetPath(tx))
	return ctx, tx, nil
}

// decode runs the decoder. A decoder panic is returned as an error.
func (b BaseApp) decode(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
