// Package tempfile hands out uniquely named temporary paths for the
// duration of a caller-supplied action and removes them afterwards.
//
// WithSync and With are the scoped forms:
//
//	out, err := tempfile.WithSync(func(path string) (string, error) {
//		if err := os.WriteFile(path, []byte("hi"), 0o600); err != nil {
//			return "", err
//		}
//		b, err := os.ReadFile(path)
//		return string(b), err
//	})
//
// The path lies inside the target directory (os.TempDir() unless WithDir
// is given) and does not exist when the action starts. After the action
// returns, fails, or panics the path is removed unless WithKeep(true) was
// passed. Removal is best effort: failures are logged and sent to registry
// observers but never replace the action's outcome.
//
// Acquire and Descriptor.Release are the underlying pair for callers that
// need a different scope. Every live descriptor is tracked in a Registry;
// Registry.Close removes whatever is still outstanding.
package tempfile
