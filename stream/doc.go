// Package stream drains byte streams into memory.
//
// Two stream shapes are supported:
//
//	io.Reader  - pull-based; read until io.EOF
//	Emitter    - push-based; data/end/error lifecycle via Subscribe
//
// Drain returns the concatenation of every chunk in emission order and
// settles exactly once. An error from the stream is reported as a
// KindStreamFailed error from the errors package wrapping the stream's own error.
//
//	p := stream.NewPipe()
//	go func() {
//	    p.Write([]byte("hello "))
//	    p.Write([]byte("world"))
//	    p.End()
//	}()
//	data, err := stream.Drain(ctx, p) // "hello world"
//
// There is no read timeout. A stream that never ends blocks Drain until ctx
// is done; with context.Background() it blocks forever.
package stream
