package fsutil

import (
	"context"
	"io/fs"
	"os"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/promise"
)

// DescriptorType is the kind of filesystem object a path refers to.
type DescriptorType uint8

const (
	DescriptorTypeUnknown DescriptorType = iota
	DescriptorTypeBlockDevice
	DescriptorTypeCharacterDevice
	DescriptorTypeDirectory
	DescriptorTypeFifo
	DescriptorTypeSymbolicLink
	DescriptorTypeRegularFile
	DescriptorTypeSocket
)

var descriptorTypeNames = [...]string{
	DescriptorTypeUnknown:         "unknown",
	DescriptorTypeBlockDevice:     "block-device",
	DescriptorTypeCharacterDevice: "character-device",
	DescriptorTypeDirectory:       "directory",
	DescriptorTypeFifo:            "fifo",
	DescriptorTypeSymbolicLink:    "symbolic-link",
	DescriptorTypeRegularFile:     "file",
	DescriptorTypeSocket:          "socket",
}

func (t DescriptorType) String() string {
	if int(t) < len(descriptorTypeNames) {
		return descriptorTypeNames[t]
	}
	return "unknown"
}

// Stat runs os.Lstat when useLstat is set and os.Stat otherwise.
func Stat(path string, useLstat bool) (fs.FileInfo, error) {
	if useLstat {
		return os.Lstat(path)
	}
	return os.Stat(path)
}

// TypeOf classifies path. Unlike the Is* predicates it reports stat failures.
func TypeOf(path string, useLstat bool) (DescriptorType, error) {
	info, err := Stat(path, useLstat)
	if err != nil {
		return DescriptorTypeUnknown, rferrors.FromOS(rferrors.PhaseStat, path, err)
	}
	return fileInfoToDescriptorType(info), nil
}

func fileInfoToDescriptorType(info fs.FileInfo) DescriptorType {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		return DescriptorTypeDirectory
	case mode.IsRegular():
		return DescriptorTypeRegularFile
	case mode&fs.ModeSymlink != 0:
		return DescriptorTypeSymbolicLink
	case mode&fs.ModeNamedPipe != 0:
		return DescriptorTypeFifo
	case mode&fs.ModeSocket != 0:
		return DescriptorTypeSocket
	case mode&fs.ModeDevice != 0:
		if mode&fs.ModeCharDevice != 0 {
			return DescriptorTypeCharacterDevice
		}
		return DescriptorTypeBlockDevice
	default:
		return DescriptorTypeUnknown
	}
}

// is answers whether path is of type want. Any stat failure, including a
// missing path, is a plain false.
func is(path string, useLstat bool, want DescriptorType) bool {
	got, err := TypeOf(path, useLstat)
	return err == nil && got == want
}

func isAsync(ctx context.Context, path string, useLstat bool, want DescriptorType) *promise.Promise[bool] {
	return promise.Go(func() (bool, error) {
		if ctx.Err() != nil {
			return false, nil
		}
		return is(path, useLstat, want), nil
	})
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeRegularFile)
}

// IsFileAsync is IsFile on its own goroutine.
func IsFileAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeRegularFile)
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeDirectory)
}

// IsDirectoryAsync is IsDirectory on its own goroutine.
func IsDirectoryAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeDirectory)
}

// IsSymbolicLink reports whether path is a symbolic link. Without useLstat
// the link is followed, so this is only ever true with useLstat set.
func IsSymbolicLink(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeSymbolicLink)
}

// IsSymbolicLinkAsync is IsSymbolicLink on its own goroutine.
func IsSymbolicLinkAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeSymbolicLink)
}

// IsFIFO reports whether path exists and is a named pipe.
func IsFIFO(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeFifo)
}

// IsFIFOAsync is IsFIFO on its own goroutine.
func IsFIFOAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeFifo)
}

// IsSocket reports whether path exists and is a Unix domain socket.
func IsSocket(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeSocket)
}

// IsSocketAsync is IsSocket on its own goroutine.
func IsSocketAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeSocket)
}

// IsBlockDevice reports whether path exists and is a block device.
func IsBlockDevice(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeBlockDevice)
}

// IsBlockDeviceAsync is IsBlockDevice on its own goroutine.
func IsBlockDeviceAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeBlockDevice)
}

// IsCharacterDevice reports whether path exists and is a character device.
func IsCharacterDevice(path string, useLstat bool) bool {
	return is(path, useLstat, DescriptorTypeCharacterDevice)
}

// IsCharacterDeviceAsync is IsCharacterDevice on its own goroutine.
func IsCharacterDeviceAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[bool] {
	return isAsync(ctx, path, useLstat, DescriptorTypeCharacterDevice)
}

// Size returns the size reported by stat. Unlike the predicates, a stat
// failure is returned; the raw *fs.PathError stays reachable via errors.As.
func Size(path string, useLstat bool) (int64, error) {
	info, err := Stat(path, useLstat)
	if err != nil {
		return 0, rferrors.FromOS(rferrors.PhaseStat, path, err)
	}
	return info.Size(), nil
}

// SizeAsync is Size on its own goroutine.
func SizeAsync(ctx context.Context, path string, useLstat bool) *promise.Promise[int64] {
	return promise.Go(func() (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, rferrors.Canceled(rferrors.PhaseStat, err)
		}
		return Size(path, useLstat)
	})
}

// Exists reports whether anything is at path. Links are followed, so a
// dangling symlink does not exist.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExistsAsync is Exists on its own goroutine.
func ExistsAsync(ctx context.Context, path string) *promise.Promise[bool] {
	return promise.Go(func() (bool, error) {
		if ctx.Err() != nil {
			return false, nil
		}
		return Exists(path), nil
	})
}
