package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // constructor registration
	PhaseProvide  Phase = "provide"  // object construction
	PhaseDispatch Phase = "dispatch" // capability call through a vtable
	PhaseHandoff  Phase = "handoff"  // forwarding to the other side
	PhaseGuest    Phase = "guest"    // WASM guest execution
	PhaseResource Phase = "resource" // handle table operations
	PhaseParse    Phase = "parse"    // IDL parsing
	PhaseGenerate Phase = "generate" // binding generation
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNotRegistered     Kind = "not_registered"
	KindInvalidVtable     Kind = "invalid_vtable"
	KindInvalidInput      Kind = "invalid_input"
	KindRegistration      Kind = "registration"
	KindNotFound          Kind = "not_found"
	KindInstantiation     Kind = "instantiation"
	KindTrap              Kind = "trap"
	KindRejected          Kind = "rejected"
	KindClosed            Kind = "closed"
	KindOutstandingBorrow Kind = "outstanding_borrow"
	KindSyntax            Kind = "syntax"
	KindUnknownType       Kind = "unknown_type"
	KindDuplicate         Kind = "duplicate"
	KindIO                Kind = "io"
)

// Sentinels for the two failure modes every caller of the provider must handle.
// They match any *Error with the same phase and kind through errors.Is.
var (
	ErrProviderNotRegistered = &Error{Phase: PhaseProvide, Kind: KindNotRegistered}
	ErrInvalidVtable         = &Error{Phase: PhaseDispatch, Kind: KindInvalidVtable}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // Go type of the offending value
	Slot   string // vtable slot or IDL member involved
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Slot != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Slot != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
			b.WriteString(", slot ")
			b.WriteString(e.Slot)
		} else if e.Type != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("slot ")
			b.WriteString(e.Slot)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Slot != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the path of the failing element
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Slot sets the vtable slot or IDL member name
func (b *Builder) Slot(s string) *Builder {
	b.err.Slot = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotRegistered creates the error returned when no constructor is registered
func NotRegistered() *Error {
	return &Error{
		Phase:  PhaseProvide,
		Kind:   KindNotRegistered,
		Detail: "no constructor registered",
	}
}

// InvalidVtable creates an error for an object with a missing capability
func InvalidVtable(goType, slot string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInvalidVtable,
		Type:   goType,
		Slot:   slot,
		Detail: "missing capability",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, name any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, name),
		Value:  name,
	}
}

// Closed creates an error for operations on a closed component
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// Instantiation creates a guest instantiation error
func Instantiation(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// Syntax creates an IDL syntax error positioned at line:col
func Syntax(line, col int, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Path:   []string{fmt.Sprintf("%d:%d", line, col)},
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnknownType creates an error for an IDL type no generator can map
func UnknownType(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindUnknownType,
		Path:   path,
		Detail: fmt.Sprintf("unknown type %q", name),
		Value:  name,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
