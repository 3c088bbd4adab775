package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the ABCI code of a successful response.
	SuccessABCICode = 0

	// Errors that do not wrap a registered root error share this code
	// and, outside of debug mode, this message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI response code and log of an error. Internal
// errors, those that do not carry an ABCI code, are returned with code 1
// and a generic message unless debug is set. In debug mode the log
// contains the full error, including the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	code := abciCode(err)
	switch {
	case code == SuccessABCICode:
		return code, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from an ABCI response code and log. If the
// code is registered, the result is of that kind.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	root := Lookup(code)
	if root == nil {
		return errors.New(log)
	}
	return &wrappedError{parent: root, msg: log}
}

// Redact replaces internal errors and recovered panics with a generic
// error, so that no implementation details leak to the client. In debug
// mode the error is returned unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that has
// one.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}
