// Package fsutil holds the filesystem helpers the rest of the module leans on.
//
// Predicates (IsFile, IsDirectory, IsSymbolicLink, IsFIFO, IsSocket,
// IsBlockDevice, IsCharacterDevice) never fail: a path that cannot be
// stat'ed is simply not a file, directory, and so on. Each has an Async
// variant returning a promise. Size and TypeOf, by contrast, report the stat
// error, since asking for the size of a missing path is a caller mistake.
//
// CreateDirectoryIfNeeded creates one directory level and is idempotent.
// GlobSync/Glob expand one or more patterns into a sorted, de-duplicated
// list of paths.
package fsutil
