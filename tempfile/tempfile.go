package tempfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/fsutil"
	"github.com/wippyai/resolvefs/promise"
)

// maxNameAttempts bounds regeneration when a generated name already exists.
const maxNameAttempts = 8

// newName is replaced in tests.
var newName = uuid.NewString

// Descriptor is a generated temp path owned by one scoped call.
type Descriptor struct {
	reg    *Registry
	log    *zap.Logger
	Path   string
	Dir    string
	once   sync.Once
	h      Handle
	Keep   bool
	scoped bool // owned by a running WithSync/With action; Close skips it
}

// Handle returns the registry handle, or 0 when untracked.
func (d *Descriptor) Handle() Handle {
	return d.h
}

// Release removes the path unless Keep is set. It runs at most once;
// later calls are no-ops. Removal failures are logged and reported to
// registry observers, never returned.
func (d *Descriptor) Release() {
	d.once.Do(d.release)
}

func (d *Descriptor) release() {
	if d.reg != nil {
		d.reg.remove(d.h)
	}

	if d.Keep {
		d.log.Debug("temp path kept", zap.String("path", d.Path))
		d.reg.notify(Event{Type: EventKept, Handle: d.h, Path: d.Path})
		return
	}

	if _, err := os.Lstat(d.Path); errors.Is(err, fs.ErrNotExist) {
		d.reg.notify(Event{Type: EventReleased, Handle: d.h, Path: d.Path})
		return
	}

	if err := os.RemoveAll(d.Path); err != nil {
		d.log.Warn("temp path cleanup failed",
			zap.String("path", d.Path),
			zap.Error(err))
		d.reg.notify(Event{Type: EventCleanupFailed, Handle: d.h, Path: d.Path, Err: err})
		return
	}

	d.log.Debug("temp path removed", zap.String("path", d.Path))
	d.reg.notify(Event{Type: EventReleased, Handle: d.h, Path: d.Path})
}

// Acquire ensures the parent directory exists and generates a unique path
// inside it. Nothing is created at the path itself. Callers must Release
// the descriptor.
func Acquire(opts ...Option) (*Descriptor, error) {
	return acquire(opts, false)
}

func acquire(opts []Option, scoped bool) (*Descriptor, error) {
	o := buildOptions(opts)

	dir := o.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	created, err := fsutil.CreateDirectoryIfNeeded(dir, o.DirMode)
	if err != nil {
		return nil, rferrors.DirectoryCreateFailed(dir, err)
	}
	if created {
		o.Logger.Debug("created temp directory", zap.String("dir", dir))
	}

	path, err := uniquePath(dir, o.Prefix, o.Suffix)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Path:   path,
		Dir:    dir,
		Keep:   o.Keep,
		log:    o.Logger,
		scoped: scoped,
	}

	if o.Registry != nil {
		h, err := o.Registry.insert(d)
		if err != nil {
			return nil, rferrors.Wrap(rferrors.PhaseTempDir, rferrors.KindInvalidInput, err, "acquire")
		}
		d.reg = o.Registry
		d.h = h
	}

	o.Logger.Debug("acquired temp path",
		zap.String("path", path),
		zap.Bool("keep", o.Keep))

	return d, nil
}

func uniquePath(dir, prefix, suffix string) (string, error) {
	for range maxNameAttempts {
		p := filepath.Join(dir, prefix+newName()+suffix)
		if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
	}
	return "", rferrors.New(rferrors.PhaseTempDir, rferrors.KindNameExhausted).
		Path(dir).
		Detail("no free name after %d attempts", maxNameAttempts).
		Build()
}

// WithSync runs action with a fresh temp path and removes the path when
// action returns, unless keep was requested. The action's result and error
// are returned unchanged. A panic in action propagates after cleanup.
func WithSync[T any](action func(path string) (T, error), opts ...Option) (T, error) {
	d, err := acquire(opts, true)
	if err != nil {
		var zero T
		return zero, err
	}
	defer d.Release()

	return action(d.Path)
}

// With is the asynchronous form of WithSync. The action runs on its own
// goroutine and the returned promise settles only after cleanup. A panic
// in action rejects the promise with an action_panicked error.
func With[T any](ctx context.Context, action func(ctx context.Context, path string) (T, error), opts ...Option) *promise.Promise[T] {
	p := promise.New[T]()

	go func() {
		if err := ctx.Err(); err != nil {
			p.Reject(rferrors.Canceled(rferrors.PhaseAction, err))
			return
		}

		d, err := acquire(opts, true)
		if err != nil {
			p.Reject(err)
			return
		}

		v, err := run(ctx, d.Path, action)
		d.Release()

		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()

	return p
}

func run[T any](ctx context.Context, path string, action func(context.Context, string) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = rferrors.ActionPanicked(path, r)
		}
	}()
	return action(ctx, path)
}
