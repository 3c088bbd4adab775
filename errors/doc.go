/*
Package errors provides error kinds with stable ABCI codes.

Every error returned to a client wraps one of the root errors registered
with Register. The root error code becomes the ABCI response code and Is
tells whether an error is of a given kind, no matter how many times it was
wrapped:

	if errors.ErrNotFound.Is(err) {
		...
	}

Wrap and Wrapf attach a stack trace on the first wrap only. Print an error
with %+v to see it.

Errors that do not wrap a registered root error are internal. Their
messages are replaced with a generic one unless the application runs in
debug mode, see ABCIInfo and Redact.

Field and AppendField label validation failures with the name of the
invalid field, so tests can check them with FieldErrors.
*/
package errors
