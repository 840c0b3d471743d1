// internal/svn/errors.go

package svn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an info query failed.
type Kind int

const (
	KindUnknown Kind = iota
	ToolNotFound
	NotAWorkingCopy
	ToolExecutionFailed
	FieldNotFound
	NumericParseError
)

func (k Kind) String() string {
	switch k {
	case ToolNotFound:
		return "ToolNotFound"
	case NotAWorkingCopy:
		return "NotAWorkingCopy"
	case ToolExecutionFailed:
		return "ToolExecutionFailed"
	case FieldNotFound:
		return "FieldNotFound"
	case NumericParseError:
		return "NumericParseError"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by the client. Callers branch on
// Kind via errors.As, errors.Is against the Err* sentinels, or IsKind.
type Error struct {
	Kind     Kind
	Tool     string
	Path     string
	ExitCode int
	Field    string
	Value    string
	// Output is the captured stdout of the failing invocation, if any.
	Output string
	Err    error
}

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrToolNotFound        = &Error{Kind: ToolNotFound}
	ErrNotAWorkingCopy     = &Error{Kind: NotAWorkingCopy}
	ErrToolExecutionFailed = &Error{Kind: ToolExecutionFailed}
	ErrFieldNotFound       = &Error{Kind: FieldNotFound}
	ErrNumericParse        = &Error{Kind: NumericParseError}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case ToolNotFound:
		msg = fmt.Sprintf("could not start %q: most probably the svn client is not installed or not on PATH", e.Tool)
	case NotAWorkingCopy:
		msg = fmt.Sprintf("the specified path is not a working copy: %s", e.Path)
	case ToolExecutionFailed:
		msg = "failed while running svn info"
		if e.Path != "" {
			msg += " on " + e.Path
		}
		if e.ExitCode != 0 {
			msg += fmt.Sprintf(": exit code %d", e.ExitCode)
		}
	case FieldNotFound:
		msg = fmt.Sprintf("field %q was not found in svn info output for %s. Output:\n%s", e.Field, e.Path, e.Output)
	case NumericParseError:
		msg = fmt.Sprintf("field %q of %s is not a valid integer: %q", e.Field, e.Path, e.Value)
	default:
		msg = "svn info failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
