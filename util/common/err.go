package common

import (
	"errors"

	"github.com/leadmap/leadmap/logger"
)

// Kind classifies an error by how it should be reported to API callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	}
	return "internal"
}

// Error is an expected failure whose message is safe to show to the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func NewAuthError(msg string) error {
	return &Error{Kind: KindAuth, Msg: msg}
}

func NewForbiddenError(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func NewConflictError(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Combine returns the first non-nil error.
func Combine(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
