// Package fault defines the error taxonomy shared by every command and the
// Propagated carrier that tells the dispatcher where to send a failure.
package fault

import (
	"errors"
	"fmt"
)

// Kind sentinels. Package-level errors elsewhere wrap exactly one of these.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrStorage           = errors.New("storage failure")
)

// Kind classifies an error by the sentinel it wraps.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindPasswordIncorrect
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindPasswordIncorrect:
		return "password_incorrect"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPasswordIncorrect):
		return KindPasswordIncorrect
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindUnknown
	}
}

// Storage wraps err as a storage failure.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Propagated is a failure addressed to a recipient.
// The dispatcher sends Message to Target without inspecting Cause.
type Propagated struct {
	Target  string
	Message string
	Cause   error
}

// Propagate builds a Propagated failure.
func Propagate(target, message string, cause error) *Propagated {
	return &Propagated{Target: target, Message: message, Cause: cause}
}

// Propagatef builds a Propagated failure with a formatted message and no cause.
func Propagatef(target, format string, args ...any) *Propagated {
	return &Propagated{Target: target, Message: fmt.Sprintf(format, args...)}
}

func (p *Propagated) Error() string {
	if p.Cause != nil {
		return fmt.Sprintf("%s -> %s (%v)", p.Target, p.Message, p.Cause)
	}
	return fmt.Sprintf("%s -> %s", p.Target, p.Message)
}

func (p *Propagated) Unwrap() error {
	return p.Cause
}
