package goerror

import (
	"errors"

	crdb "github.com/cockroachdb/errors"
)

// Class is the taxonomy bucket an error falls into.
type Class int

const (
	// ClassNone means there is no error.
	ClassNone Class = iota
	// ClassValidation is a *ValidationError.
	ClassValidation
	// ClassService is an *Error.
	ClassService
	// ClassUnclassified is any other error.
	ClassUnclassified
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassNone:
		return "NONE"
	case ClassValidation:
		return "VALIDATION"
	case ClassService:
		return "SERVICE"
	default:
		return "UNCLASSIFIED"
	}
}

// UnclassifiedError marks a failure that matches no other class. It records
// the stack where it was created.
type UnclassifiedError struct {
	err error
}

// NewUnclassified wraps err as an unclassified error.
func NewUnclassified(err error) *UnclassifiedError {
	if err == nil {
		err = errors.New("unclassified error")
	}
	return &UnclassifiedError{err: crdb.WithStackDepth(err, 1)}
}

// Error implements the error interface.
func (e *UnclassifiedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *UnclassifiedError) Unwrap() error {
	return e.err
}

// Classify reports which taxonomy class err belongs to. The first classified
// error found while walking the chain decides, so a service error wrapping a
// validation error is a service error.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}

	class := ClassUnclassified
	walk(err, func(e error) bool {
		switch e.(type) {
		case *ValidationError:
			class = ClassValidation
			return true
		case *Error:
			class = ClassService
			return true
		}
		return false
	})

	return class
}

// walk visits err's chain depth first, in the same order as errors.As,
// until visit returns true.
func walk(err error, visit func(error) bool) bool {
	if err == nil {
		return false
	}
	if visit(err) {
		return true
	}

	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return walk(x.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if walk(e, visit) {
				return true
			}
		}
	}

	return false
}

// AsValidation returns the *ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// AsService returns the *Error in err's chain, if any.
func AsService(err error) (*Error, bool) {
	var serr *Error
	ok := errors.As(err, &serr)
	return serr, ok
}
