package fsutil

import (
	"context"
	"errors"
	"io/fs"
	"os"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/promise"
)

// DefaultDirMode is the permission used for directories created here.
const DefaultDirMode fs.FileMode = 0o755

// CreateDirectoryIfNeeded creates dir unless it already is a directory.
// Only dir itself is created; a missing parent is an error. It reports
// whether this call created the directory.
func CreateDirectoryIfNeeded(dir string, mode fs.FileMode) (bool, error) {
	if IsDirectory(dir, false) {
		return false, nil
	}
	if mode == 0 {
		mode = DefaultDirMode
	}
	if err := os.Mkdir(dir, mode); err != nil {
		// lost a race with another creator
		if errors.Is(err, fs.ErrExist) && IsDirectory(dir, false) {
			return false, nil
		}
		return false, rferrors.FromOS(rferrors.PhaseTempDir, dir, err)
	}
	return true, nil
}

// CreateDirectoryIfNeededAsync is CreateDirectoryIfNeeded on its own goroutine.
func CreateDirectoryIfNeededAsync(ctx context.Context, dir string, mode fs.FileMode) *promise.Promise[bool] {
	return promise.Go(func() (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, rferrors.Canceled(rferrors.PhaseTempDir, err)
		}
		return CreateDirectoryIfNeeded(dir, mode)
	})
}
