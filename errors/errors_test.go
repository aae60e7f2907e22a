package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindUnsupported,
				Path:   "/tmp/x",
				GoType: "int",
				Depth:  4,
				Detail: "cannot materialize",
			},
			contains: []string{"[resolve]", "unsupported", `"/tmp/x"`, "depth 4", "int", "cannot materialize"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDrain,
				Kind:  KindStreamFailed,
			},
			contains: []string{"[drain]", "stream_failed"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTempDir,
				Kind:   KindDirectoryCreateFailed,
				Detail: "create directory",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[tempdir]", "directory_create_failed", "create directory", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindInvocationFailure,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := MaxDepthExceeded(63)

	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Error("Is should match sentinel with same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDrain, Kind: KindMaxDepthExceeded}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(ErrUnsupported) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrMaxDepthExceeded) {
		t.Error("errors.Is should see through fmt wrapping")
	}
	var target *Error
	if !errors.As(wrapped, &target) || target.Depth != 63 {
		t.Errorf("errors.As = %v", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindUnsupported).
		Path("/p").
		GoType("chan int").
		Value(42).
		Depth(2).
		Cause(cause).
		Detail("expected %s, got %s", "bytes", "chan").
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindUnsupported {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
	}
	if err.Path != "/p" {
		t.Errorf("Path = %v, want /p", err.Path)
	}
	if err.GoType != "chan int" {
		t.Errorf("GoType = %v, want 'chan int'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if err.Depth != 2 {
		t.Errorf("Depth = %v, want 2", err.Depth)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected bytes, got chan" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseResolve, 3.5)
		if err.Kind != KindUnsupported || err.GoType != "float64" {
			t.Errorf("Kind=%v GoType=%v", err.Kind, err.GoType)
		}
	})

	t.Run("InvocationFailure", func(t *testing.T) {
		err := InvocationFailure(1, errors.New("boom"))
		if !errors.Is(err, ErrInvocationFailure) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("RejectionPropagated", func(t *testing.T) {
		err := RejectionPropagated(1, errors.New("nope"))
		if !errors.Is(err, ErrRejectionPropagated) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("StreamFailed", func(t *testing.T) {
		err := StreamFailed(errors.New("reset"))
		if !errors.Is(err, ErrStreamFailed) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("DirectoryCreateFailed", func(t *testing.T) {
		err := DirectoryCreateFailed("/nope", fs.ErrPermission)
		if !errors.Is(err, ErrDirectoryCreateFailed) || !errors.Is(err, fs.ErrPermission) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("ActionPanicked with non-error", func(t *testing.T) {
		err := ActionPanicked("/tmp/a", "kaboom")
		if err.Cause == nil || err.Cause.Error() != "kaboom" {
			t.Errorf("Cause = %v", err.Cause)
		}
		if err.Value != "kaboom" {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("UnknownEncoding", func(t *testing.T) {
		err := UnknownEncoding("ebcdic")
		if err.Kind != KindUnknownEncoding || !strings.Contains(err.Error(), "ebcdic") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		err := InvalidPattern("[", errors.New("syntax"))
		if err.Phase != PhaseGlob || err.Kind != KindInvalidPattern {
			t.Errorf("got %v", err)
		}
	})
}

func TestFromOS(t *testing.T) {
	if FromOS(PhaseStat, "x", nil) != nil {
		t.Fatal("nil error should map to nil")
	}

	missing := filepath.Join(t.TempDir(), "missing")
	_, statErr := os.Stat(missing)
	err := FromOS(PhaseStat, missing, statErr)
	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("raw not-exist error should stay reachable")
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Error("raw *fs.PathError should stay reachable")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, statErr = os.Stat(filepath.Join(file, "child"))
	if got := FromOS(PhaseStat, file, statErr).Kind; got != KindNotDirectory {
		t.Errorf("Kind = %v, want %v", got, KindNotDirectory)
	}

	if got := FromOS(PhaseStat, "", errors.New("odd")).Kind; got != KindIO {
		t.Errorf("Kind = %v, want %v", got, KindIO)
	}
}
