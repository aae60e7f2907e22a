package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"syscall"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // value materialization
	PhaseEncode  Phase = "encode"  // text to bytes
	PhaseDrain   Phase = "drain"   // stream consumption
	PhaseTempDir Phase = "tempdir" // temp directory preparation
	PhaseAction  Phase = "action"  // caller-supplied temp file action
	PhaseStat    Phase = "stat"    // stat/lstat calls
	PhaseGlob    Phase = "glob"    // pattern expansion
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported           Kind = "unsupported"
	KindMaxDepthExceeded      Kind = "max_depth_exceeded"
	KindInvocationFailure     Kind = "invocation_failure"
	KindRejectionPropagated   Kind = "rejection_propagated"
	KindStreamFailed          Kind = "stream_failed"
	KindDirectoryCreateFailed Kind = "directory_create_failed"
	KindActionPanicked        Kind = "action_panicked"
	KindUnknownEncoding       Kind = "unknown_encoding"
	KindInvalidInput          Kind = "invalid_input"
	KindInvalidPattern        Kind = "invalid_pattern"
	KindNameExhausted         Kind = "name_exhausted"
	KindCanceled              Kind = "canceled"
	KindNotFound              Kind = "not_found"
	KindAccess                Kind = "access"
	KindExist                 Kind = "exist"
	KindNotDirectory          Kind = "not_directory"
	KindIsDirectory           Kind = "is_directory"
	KindNameTooLong           Kind = "name_too_long"
	KindLoop                  Kind = "loop"
	KindIO                    Kind = "io"
)

// Sentinels for errors.Is; only Phase and Kind are compared.
var (
	ErrUnsupported           = &Error{Phase: PhaseResolve, Kind: KindUnsupported}
	ErrMaxDepthExceeded      = &Error{Phase: PhaseResolve, Kind: KindMaxDepthExceeded}
	ErrInvocationFailure     = &Error{Phase: PhaseResolve, Kind: KindInvocationFailure}
	ErrRejectionPropagated   = &Error{Phase: PhaseResolve, Kind: KindRejectionPropagated}
	ErrStreamFailed          = &Error{Phase: PhaseDrain, Kind: KindStreamFailed}
	ErrDirectoryCreateFailed = &Error{Phase: PhaseTempDir, Kind: KindDirectoryCreateFailed}
	ErrActionPanicked        = &Error{Phase: PhaseAction, Kind: KindActionPanicked}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   string
	Depth  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(strconv.Quote(e.Path))
	}

	if e.Depth > 0 {
		b.WriteString(" (depth ")
		b.WriteString(strconv.Itoa(e.Depth))
		b.WriteByte(')')
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// Path sets the filesystem path involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Depth records how many resolution steps were taken
func (b *Builder) Depth(n int) *Builder {
	b.err.Depth = n
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

// Unsupported creates an unsupported value error
func Unsupported(phase Phase, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		GoType: fmt.Sprintf("%T", value),
		Detail: "value cannot be materialized",
		Value:  value,
	}
}

// MaxDepthExceeded creates a recursion budget exhaustion error
func MaxDepthExceeded(maxDepth int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindMaxDepthExceeded,
		Depth:  maxDepth,
		Detail: fmt.Sprintf("value still deferred after %d steps", maxDepth),
	}
}

// InvocationFailure wraps an error returned or panicked by a thunk
func InvocationFailure(depth int, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInvocationFailure,
		Depth:  depth,
		Detail: "thunk invocation failed",
		Cause:  cause,
	}
}

// RejectionPropagated wraps the rejection reason of a callback or awaitable
func RejectionPropagated(depth int, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindRejectionPropagated,
		Depth:  depth,
		Detail: "deferred value rejected",
		Cause:  cause,
	}
}

// StreamFailed wraps a stream error signal
func StreamFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseDrain,
		Kind:   KindStreamFailed,
		Detail: "stream signalled an error",
		Cause:  cause,
	}
}

// DirectoryCreateFailed wraps a temp directory creation failure
func DirectoryCreateFailed(dir string, cause error) *Error {
	return &Error{
		Phase:  PhaseTempDir,
		Kind:   KindDirectoryCreateFailed,
		Path:   dir,
		Detail: "create directory",
		Cause:  cause,
	}
}

// ActionPanicked converts a recovered panic into an error
func ActionPanicked(path string, recovered any) *Error {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}
	return &Error{
		Phase:  PhaseAction,
		Kind:   KindActionPanicked,
		Path:   path,
		Detail: "action panicked",
		Cause:  cause,
		Value:  recovered,
	}
}

// UnknownEncoding creates an error for an unrecognized text encoding name
func UnknownEncoding(name string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnknownEncoding,
		Detail: fmt.Sprintf("unknown encoding %q", name),
		Value:  name,
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

// InvalidPattern wraps a malformed glob pattern
func InvalidPattern(pattern string, cause error) *Error {
	return &Error{
		Phase:  PhaseGlob,
		Kind:   KindInvalidPattern,
		Detail: fmt.Sprintf("pattern %q", pattern),
		Cause:  cause,
		Value:  pattern,
	}
}

// Canceled wraps a context error observed while waiting
func Canceled(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCanceled,
		Detail: "wait abandoned",
		Cause:  cause,
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

// FromOS maps an os/syscall failure to a structured error, keeping the raw
// error as Cause so errors.Is(err, fs.ErrNotExist) keeps working.
func FromOS(phase Phase, path string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Phase: phase,
		Kind:  kindOf(err),
		Path:  path,
		Cause: err,
	}
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindAccess
	case errors.Is(err, fs.ErrExist):
		return KindExist
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return kindOfErrno(errno)
	}
	return KindIO
}

func kindOfErrno(errno syscall.Errno) Kind {
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		return KindAccess
	case syscall.ENOENT:
		return KindNotFound
	case syscall.EEXIST:
		return KindExist
	case syscall.ENOTDIR:
		return KindNotDirectory
	case syscall.EISDIR:
		return KindIsDirectory
	case syscall.ENAMETOOLONG:
		return KindNameTooLong
	case syscall.ELOOP:
		return KindLoop
	default:
		return KindIO
	}
}
