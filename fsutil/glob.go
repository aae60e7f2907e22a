package fsutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/promise"
)

// GlobOptions tunes pattern expansion.
type GlobOptions struct {
	// Cwd is the base for relative patterns and relative results.
	// Defaults to the process working directory.
	Cwd string
	// Ignore drops matches of these patterns (relative to Cwd unless absolute).
	Ignore []string
	// Absolute returns absolute paths instead of paths relative to Cwd.
	Absolute bool
	// NoDir drops directories from the results.
	NoDir bool
	// Dot lets wildcards match names starting with a dot.
	Dot bool
	// NoFollow stops ** from descending through symlinked directories.
	NoFollow bool
}

// GlobSync expands every pattern and returns the union of the matches,
// de-duplicated and lexically sorted. Patterns support ** for any number
// of directories.
func GlobSync(patterns []string, opts GlobOptions) ([]string, error) {
	cwd, err := globBase(opts.Cwd)
	if err != nil {
		return nil, err
	}

	ignores := make([]string, 0, len(opts.Ignore))
	for _, ig := range opts.Ignore {
		abs := absPattern(cwd, ig)
		if !doublestar.ValidatePathPattern(abs) {
			return nil, rferrors.InvalidPattern(ig, doublestar.ErrBadPattern)
		}
		ignores = append(ignores, abs)
	}

	var globOpts []doublestar.GlobOption
	if opts.NoDir {
		globOpts = append(globOpts, doublestar.WithFilesOnly())
	}
	if opts.NoFollow {
		globOpts = append(globOpts, doublestar.WithNoFollow())
	}

	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		abs := absPattern(cwd, pattern)
		if !doublestar.ValidatePathPattern(abs) {
			return nil, rferrors.InvalidPattern(pattern, doublestar.ErrBadPattern)
		}

		matches, err := doublestar.FilepathGlob(abs, globOpts...)
		if err != nil {
			if errors.Is(err, doublestar.ErrBadPattern) {
				return nil, rferrors.InvalidPattern(pattern, err)
			}
			return nil, rferrors.Wrap(rferrors.PhaseGlob, rferrors.KindIO, err, pattern)
		}

		base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		explicitDot := namesDot(pattern)
		for _, m := range matches {
			if !opts.Dot && !explicitDot && hidden(filepath.FromSlash(base), m) {
				continue
			}
			if ignored(ignores, m) {
				continue
			}
			seen[present(cwd, m, opts.Absolute)] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Glob is GlobSync on its own goroutine.
func Glob(ctx context.Context, patterns []string, opts GlobOptions) *promise.Promise[[]string] {
	return promise.Go(func() ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, rferrors.Canceled(rferrors.PhaseGlob, err)
		}
		return GlobSync(patterns, opts)
	})
}

func globBase(cwd string) (string, error) {
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", rferrors.Wrap(rferrors.PhaseGlob, rferrors.KindIO, err, "working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", rferrors.Wrap(rferrors.PhaseGlob, rferrors.KindInvalidInput, err, "cwd")
	}
	return abs, nil
}

func absPattern(cwd, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(cwd, pattern)
}

// namesDot reports whether pattern spells out a dot-prefixed segment,
// ignoring "." and ".." (so "./*" does not count).
func namesDot(pattern string) bool {
	return hasDotSegment(filepath.Clean(pattern))
}

// hidden reports whether match has a dot-prefixed segment below base.
func hidden(base, match string) bool {
	rel, err := filepath.Rel(base, match)
	if err != nil {
		return false
	}
	return hasDotSegment(rel)
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if len(seg) > 1 && seg[0] == '.' && seg != ".." {
			return true
		}
	}
	return false
}

func ignored(ignores []string, match string) bool {
	for _, ig := range ignores {
		if ok, _ := doublestar.PathMatch(ig, match); ok {
			return true
		}
	}
	return false
}

func present(cwd, match string, absolute bool) string {
	if absolute {
		return match
	}
	rel, err := filepath.Rel(cwd, match)
	if err != nil {
		return match
	}
	return rel
}
