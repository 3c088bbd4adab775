/*
Package assert provides the handful of test assertions used across the
timelock packages. Every assertion stops the test on failure.
*/
package assert

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// Tester is implemented by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Nil fails if the value is not nil. Typed nil pointers, maps, slices and
// functions are nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of an error, if it carries one.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatalf("panic expected")
	}
}

func panics(fn func()) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()
	fn()
	return false
}

// IsErr fails unless got is, or wraps, the want error. Two nil errors
// match.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if is, ok := want.(interface{ Is(error) bool }); ok && is.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}

// FieldError fails unless err holds exactly one error for the named field
// and that error is of the wanted kind. With a nil want, it fails if any
// error for the field is present.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("want no %q field error, got %d: %v", fieldName, len(errs), errs)
	case len(errs) == 0:
		t.Fatalf("want %q field error, got none in %v", fieldName, err)
	case len(errs) > 1:
		t.Fatalf("want exactly one %q field error, got %d: %v", fieldName, len(errs), errs)
	case !want.Is(errs[0]):
		t.Fatalf("want %q field error to be %q, got %q", fieldName, want, errs[0])
	}
}
