package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If appended error is a group of errors, it is flattened so that the
// result is always a single level collection.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(*multiErr); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return &res
	}
}

// multiErr is a group of errors. The first error in the collection
// determines the ABCI code.
type multiErr []error

func (m *multiErr) Unpack() []error {
	return *m
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(*m))
	for i, e := range *m {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(msgs), strings.Join(msgs, "; "))
}

func (m *multiErr) ABCICode() uint32 {
	return abciCode((*m)[0])
}

var (
	_ unpacker = (*multiErr)(nil)
	_ coder    = (*multiErr)(nil)
)
