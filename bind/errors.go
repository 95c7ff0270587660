package bind

import (
	"errors"
	"fmt"

	"xpathbind/node"
)

var (
	ErrNilInput         = errors.New("input is nil")
	ErrNilTarget        = errors.New("target is nil")
	ErrNotStructPointer = errors.New("target must be a non-nil pointer to a struct")
	ErrArrayOverflow    = errors.New("node list does not fit into array")
	ErrFixedArray       = errors.New("fixed size arrays are not allowed")
	ErrPanic            = errors.New("panic")

	ErrAppendImmutable = node.ErrAppendImmutable
	ErrTooManyParams   = node.ErrTooManyParams
	ErrUnsupportedType = node.ErrUnsupportedType
	ErrArrayOfArray    = node.ErrArrayOfArray
	ErrUnexported      = node.ErrUnexported
)

// ParseError is the only error kind returned by the binder. Msg names the
// member, type or path being processed; Cause is the underlying failure and
// is reachable through errors.Is and errors.As.
type ParseError struct {
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return "xpathbind: " + e.Msg
	}
	return "xpathbind: " + e.Msg + ": " + e.Cause.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func newError(msg string, cause error) *ParseError {
	return &ParseError{Msg: msg, Cause: cause}
}

// wrap runs fn and turns any failure, panics included, into a ParseError
// carrying msg. msg is only rendered on failure.
func wrap(msg func() string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newError(msg(), panicError(rec))
		}
	}()

	if ferr := fn(); ferr != nil {
		return newError(msg(), ferr)
	}

	return nil
}

// wrapValue is wrap for functions producing a value.
func wrapValue[T any](msg func() string, fn func() (T, error)) (out T, err error) {
	err = wrap(msg, func() error {
		var ferr error
		out, ferr = fn()
		return ferr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return out, nil
}

func panicError(rec any) error {
	if e, ok := rec.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, e)
	}
	return fmt.Errorf("%w: %v", ErrPanic, rec)
}
