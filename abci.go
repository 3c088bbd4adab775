package weave

import (
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is returned to the client, for example the ID of a created
	// entity.
	Data []byte
	Log  string
	// Tags are indexed by tendermint and can be used to search for
	// transactions.
	Tags    []common.KVPair
	GasUsed int64
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a successfully checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction is expected to
	// perform when delivered.
	GasAllocated int64
}

func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError returns the ABCI response of a DeliverTx call.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckOrError returns the ABCI response of a CheckTx call.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// ParseDeliverOrError reverses DeliverOrError. A failed response is
// returned as an error of the registered kind, so that client code can
// test it with Is.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// DeliverTxError converts an error into a failed DeliverTx response.
// Unless in debug mode, internal error details are hidden.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts an error into a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// QueryError converts an error into a failed query response.
func QueryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

func failure(prefix string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, prefix + ": " + log
}
