// Package fault defines the tagged error type shared by every stage of the
// harness. A fault is always fatal to the current invocation; it is carried up
// by return value and only turned into a process exit by cmd/dummymodule.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fault.
type Kind int

const (
	// KindUnknown is reported for errors that are not faults.
	KindUnknown Kind = iota

	// KindType indicates an argument of the wrong shape (expression not a string).
	KindType

	// KindValue indicates a malformed expression or a violated limit.
	KindValue

	// KindConfiguration indicates a missing or malformed flag reference.
	KindConfiguration

	// KindInput indicates an upstream artifact that is missing or malformed.
	KindInput

	// KindInjected indicates a failure requested with --fail.
	KindInjected
)

// String returns the category name reported on stderr.
func (k Kind) String() string {
	names := []string{
		"UnknownError",
		"TypeError",
		"ValueError",
		"ConfigurationError",
		"InputError",
		"InjectedFailure",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "UnknownError"
}

// Label returns a lowercase label suitable for metrics and log fields.
func (k Kind) Label() string {
	switch k {
	case KindType:
		return "type"
	case KindValue:
		return "value"
	case KindConfiguration:
		return "configuration"
	case KindInput:
		return "input"
	case KindInjected:
		return "injected"
	default:
		return "unknown"
	}
}

// Error is a classified harness failure.
type Error struct {
	Kind   Kind
	Reason string // short, stable reason ("invalid length", "file not found")
	Detail string // optional context such as a path or offending value
	Err    error  // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Reason)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a fault of the same kind and reason.
// A target with an empty Reason matches any fault of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Format returns the user-facing line "<category>: <message>".
func (e *Error) Format() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Error())
}

// TypeError builds a KindType fault.
func TypeError(reason string) *Error {
	return &Error{Kind: KindType, Reason: reason}
}

// ValueError builds a KindValue fault.
func ValueError(reason, detail string) *Error {
	return &Error{Kind: KindValue, Reason: reason, Detail: detail}
}

// ConfigurationError builds a KindConfiguration fault.
func ConfigurationError(reason, detail string) *Error {
	return &Error{Kind: KindConfiguration, Reason: reason, Detail: detail}
}

// InputError builds a KindInput fault wrapping cause.
func InputError(reason, detail string, cause error) *Error {
	return &Error{Kind: KindInput, Reason: reason, Detail: detail, Err: cause}
}

// Injected builds the fault raised by --fail.
func Injected() *Error {
	return &Error{Kind: KindInjected, Reason: "failing hard"}
}

// KindOf returns the kind of the first fault in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Describe renders any error for stderr. Faults keep their category; other
// errors are reported as unknown.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		if fe == err {
			return fe.Format()
		}
		return fmt.Sprintf("%s: %s", fe.Kind, err.Error())
	}
	return fmt.Sprintf("%s: %s", KindUnknown, err.Error())
}
