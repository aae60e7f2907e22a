package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"go.uber.org/zap"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/promise"
	"github.com/wippyai/resolvefs/textenc"
)

// ReadChunkSize is the size of the scratch buffer used per Read call.
const ReadChunkSize = 32 * 1024

// errStreamFailed stands in for a nil error passed to OnError.
var errStreamFailed = errors.New("stream error")

// chunkPool pools read buffers to reduce allocations
var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, ReadChunkSize)
		return &b
	},
}

// Option configures a drain.
type Option func(*options)

type options struct {
	encoding string
}

// WithEncoding sets the encoding applied to text chunks delivered through
// Listener.OnText. Byte chunks and io.Reader data are always taken as-is.
func WithEncoding(name string) Option {
	return func(o *options) { o.encoding = name }
}

// Drain fully consumes src into one buffer. src is an io.Reader or an Emitter.
// Chunks are concatenated in the order they were produced.
//
// Readers are not closed; the caller owns them. Emitter listeners are detached
// before Drain returns.
func Drain(ctx context.Context, src any, opts ...Option) ([]byte, error) {
	o := options{encoding: textenc.Default}
	for _, opt := range opts {
		opt(&o)
	}

	if src != nil && isNilRef(src) {
		return nil, rferrors.New(rferrors.PhaseDrain, rferrors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", src)).
			Detail("nil stream").
			Build()
	}

	switch s := src.(type) {
	case Emitter:
		return drainEmitter(ctx, s, o.encoding)
	case io.Reader:
		return drainReader(ctx, s)
	default:
		return nil, rferrors.New(rferrors.PhaseDrain, rferrors.KindUnsupported).
			GoType(fmt.Sprintf("%T", src)).
			Detail("not a stream").
			Build()
	}
}

// DrainAsync is Drain on its own goroutine.
func DrainAsync(ctx context.Context, src any, opts ...Option) *promise.Promise[[]byte] {
	return promise.Go(func() ([]byte, error) {
		return Drain(ctx, src, opts...)
	})
}

// isNilRef reports a typed nil pointer or func stored in an interface.
func isNilRef(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func drainReader(ctx context.Context, r io.Reader) ([]byte, error) {
	bp := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bp)
	chunk := *bp

	out := bytes.NewBuffer(make([]byte, 0, 512))
	for {
		if err := ctx.Err(); err != nil {
			return nil, rferrors.Canceled(rferrors.PhaseDrain, err)
		}
		n, err := r.Read(chunk)
		if n > 0 {
			out.Write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			Logger().Debug("reader failed",
				zap.Int("bytes", out.Len()),
				zap.Error(err))
			return nil, rferrors.StreamFailed(err)
		}
	}
	return out.Bytes(), nil
}

func drainEmitter(ctx context.Context, e Emitter, enc string) ([]byte, error) {
	var (
		mu      sync.Mutex
		settled bool
		encErr  error
	)
	out := bytes.NewBuffer(make([]byte, 0, 512))
	result := make(chan error, 1)
	settle := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if settled {
			return
		}
		settled = true
		result <- err
	}

	unsubscribe := e.Subscribe(Listener{
		OnData: func(chunk []byte) {
			mu.Lock()
			defer mu.Unlock()
			if !settled {
				out.Write(chunk)
			}
		},
		OnText: func(chunk string) {
			b, err := textenc.Encode(chunk, enc)
			mu.Lock()
			if settled {
				mu.Unlock()
				return
			}
			if err == nil {
				out.Write(b)
				mu.Unlock()
				return
			}
			encErr = err
			mu.Unlock()
			settle(err)
		},
		OnEnd: func() { settle(nil) },
		OnError: func(err error) {
			if err == nil {
				err = errStreamFailed
			}
			settle(err)
		},
	})
	defer unsubscribe()

	select {
	case err := <-result:
		mu.Lock()
		failedEncoding := encErr != nil && err == encErr
		mu.Unlock()
		if failedEncoding {
			return nil, err
		}
		if err != nil {
			Logger().Debug("emitter failed", zap.Error(err))
			return nil, rferrors.StreamFailed(err)
		}
		mu.Lock()
		defer mu.Unlock()
		return bytes.Clone(out.Bytes()), nil
	case <-ctx.Done():
		settle(ctx.Err())
		return nil, rferrors.Canceled(rferrors.PhaseDrain, ctx.Err())
	}
}
