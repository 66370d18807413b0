// Package domain holds the value types and error kinds shared across the
// modem, CAT, and audio-engine packages: nothing in here touches hardware.
package domain

import "fmt"

// Kind categorizes an Error the way the original Rust Psk31Error enum did,
// so callers can branch on errors.As without parsing messages.
type Kind int

const (
	KindAudio Kind = iota
	KindSerial
	KindCat
	KindModem
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindSerial:
		return "serial"
	case KindCat:
		return "cat"
	case KindModem:
		return "modem"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the one error type the core returns. Kind lets callers decide
// policy (e.g. a Cat error doesn't tear down the session; a Serial error
// detected by a radio command means the link is gone).
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// NewError builds a Kind-tagged error from a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a Kind, preserving it for errors.Is/As.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Wrapped: err}
}
