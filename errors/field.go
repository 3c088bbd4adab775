package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of a model or message attribute to an error. The
// result still matches the wrapped root error. Nil is returned for a nil
// error, so validation code can collect results unconditionally.
//
// Names follow Go naming. Nested attributes are joined with a dot and
// elements of a collection are referenced by their index, for example
// Claimants.3 or TimeBound.Kind.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to the collected errors.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors returns all errors, possibly nested in multi errors, that were
// created for the field of given name.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && f.field == fieldName {
			return append(res, err)
		}
		switch e := err.(type) {
		case unpacker:
			for _, child := range e.Unpack() {
				res = append(res, FieldErrors(child, fieldName)...)
			}
			return res
		case causer:
			err = e.Cause()
		default:
			return res
		}
	}
	return res
}
