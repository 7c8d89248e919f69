// Package result carries tri-state operation outcomes through the
// service layer: success, failure with a display-safe message, or
// not-found. Consumers branch on state; no panics, no sentinel errors.
package result

// Result is the outcome of an operation that yields a value on success.
// The zero value is a failure with an empty message; use the
// constructors. Invariants hold by construction: only Success carries a
// value, only Failure carries a message, NotFound carries neither.
type Result[T any] struct {
	value    T
	err      string
	ok       bool
	notFound bool
}

// Success wraps a value in a successful result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure builds a failed result with a message suitable for display.
func Failure[T any](err string) Result[T] {
	return Result[T]{err: err}
}

// NotFound builds a result signalling the target does not exist.
func NotFound[T any]() Result[T] {
	return Result[T]{notFound: true}
}

// IsSuccess reports whether the operation succeeded.
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsNotFound reports whether the target was absent.
func (r Result[T]) IsNotFound() bool { return r.notFound }

// IsFailure reports whether the operation failed for any reason other
// than absence.
func (r Result[T]) IsFailure() bool { return !r.ok && !r.notFound }

// Value returns the success value. Only meaningful after IsSuccess.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure message, empty unless IsFailure.
func (r Result[T]) Err() string { return r.err }

// Status is the payload-free outcome shape used by delete operations.
type Status struct {
	err      string
	ok       bool
	notFound bool
}

// OK builds a successful status.
func OK() Status { return Status{ok: true} }

// Fail builds a failed status with a display-safe message.
func Fail(err string) Status { return Status{err: err} }

// StatusNotFound builds a status signalling the target does not exist.
func StatusNotFound() Status { return Status{notFound: true} }

// IsSuccess reports whether the operation succeeded.
func (s Status) IsSuccess() bool { return s.ok }

// IsNotFound reports whether the target was absent.
func (s Status) IsNotFound() bool { return s.notFound }

// IsFailure reports whether the operation failed for any reason other
// than absence.
func (s Status) IsFailure() bool { return !s.ok && !s.notFound }

// Err returns the failure message, empty unless IsFailure.
func (s Status) Err() string { return s.err }
