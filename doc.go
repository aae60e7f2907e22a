// Package resolvefs turns deferred values into bytes and scopes temporary
// filesystem paths to the lifetime of an action.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	resolvefs/
//	├── value/          Recursive resolution of values, thunks, callbacks and promises to []byte
//	├── stream/         Draining of io.Readers and event emitters, plus an in-memory Pipe
//	├── promise/        Single-assignment Promise used by every async form
//	├── tempfile/       Scoped temp paths (WithSync, With) and the live-path Registry
//	├── fsutil/         Stat predicates, Size, directory creation and glob
//	├── errors/         Structured error types for debugging
//	└── cmd/fsprobe/    Command-line probe built on the packages above
//
// # Quick Start
//
// Resolve a lazily produced value:
//
//	buf, err := value.AsBuffer(ctx, func() (any, error) {
//		return os.Open("input.txt")
//	})
//
// Run an action against a temp file that is removed afterwards:
//
//	n, err := tempfile.WithSync(func(path string) (int64, error) {
//		if err := os.WriteFile(path, buf, 0o600); err != nil {
//			return 0, err
//		}
//		return fsutil.Size(path, false)
//	})
//
// # Depth Limit
//
// Every thunk, callback or awaitable unwrapped during resolution consumes one
// unit of a budget (value.DefaultMaxDepth, 63 by default). Literal strings,
// byte slices and streams are terminal and cost nothing.
//
// # Logging
//
// The value, stream and tempfile packages log through zap. Each exposes
// SetLogger; the default is a no-op logger.
package resolvefs
