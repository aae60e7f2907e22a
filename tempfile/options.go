package tempfile

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/wippyai/resolvefs/fsutil"
)

// DefaultDirMode is used when the parent directory has to be created.
const DefaultDirMode = fsutil.DefaultDirMode

// Options describes where and how a temp path is generated.
type Options struct {
	Registry *Registry
	Logger   *zap.Logger
	// Dir is the parent directory; empty means os.TempDir().
	Dir    string
	Prefix string
	Suffix string
	// Keep leaves the path in place after the action.
	Keep    bool
	DirMode fs.FileMode
}

// Option mutates Options.
type Option func(*Options)

// WithDir sets the parent directory. It is created if missing, but its
// parent must already exist.
func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithSuffix sets the file name suffix, typically an extension.
func WithSuffix(suffix string) Option {
	return func(o *Options) { o.Suffix = suffix }
}

// WithKeep disables cleanup; ownership of the path passes to the caller.
func WithKeep(keep bool) Option {
	return func(o *Options) { o.Keep = keep }
}

// WithDirMode sets the permissions of a created parent directory.
func WithDirMode(mode fs.FileMode) Option {
	return func(o *Options) { o.DirMode = mode }
}

// WithRegistry tracks the descriptor in r instead of DefaultRegistry.
// A nil registry disables tracking.
func WithRegistry(r *Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) Options {
	o := Options{
		Registry: DefaultRegistry(),
		DirMode:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = Logger()
	}
	if o.DirMode == 0 {
		o.DirMode = DefaultDirMode
	}
	return o
}
