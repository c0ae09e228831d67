package repositories

import "errors"

// RepositoryError classifies persistence failures so services can map them to
// transport errors without inspecting driver internals.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// Error is the concrete RepositoryError carried out of every repository.
type Error struct {
	msg         string
	cause       error
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error       { return e.cause }
func (e *Error) IsNotFound() bool    { return e.notFound }
func (e *Error) IsConflict() bool    { return e.conflict }
func (e *Error) IsUnavailable() bool { return e.unavailable }

// NewNotFound builds a not-found repository error.
func NewNotFound(msg string, cause error) *Error {
	return &Error{msg: msg, cause: cause, notFound: true}
}

// NewConflict builds a uniqueness/constraint repository error.
func NewConflict(msg string, cause error) *Error {
	return &Error{msg: msg, cause: cause, conflict: true}
}

// NewUnavailable builds a backend-unreachable repository error.
func NewUnavailable(msg string, cause error) *Error {
	return &Error{msg: msg, cause: cause, unavailable: true}
}

// IsNotFound reports whether err is a not-found repository error.
func IsNotFound(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsNotFound()
}

// IsConflict reports whether err is a conflict repository error.
func IsConflict(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsConflict()
}

// IsUnavailable reports whether err is an availability repository error.
func IsUnavailable(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsUnavailable()
}
