package value

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	rferrors "github.com/wippyai/resolvefs/errors"
	"github.com/wippyai/resolvefs/promise"
	"github.com/wippyai/resolvefs/stream"
)

// DefaultMaxDepth bounds how many deferred layers are unwrapped.
const DefaultMaxDepth = 63

// Resolver materializes values into byte slices. A Resolver is immutable and
// safe for concurrent use; each call gets its own budget.
type Resolver struct {
	log      *zap.Logger
	encoding string
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEncoding sets the encoding used for string leaves.
func WithEncoding(name string) Option {
	return func(r *Resolver) {
		r.encoding = name
	}
}

// WithMaxDepth sets the step budget. A chain of n deferred layers resolves
// only when n < max. Negative values are treated as zero.
func WithMaxDepth(max int) Option {
	return func(r *Resolver) {
		if max < 0 {
			max = 0
		}
		r.maxDepth = max
	}
}

// WithLogger overrides the package logger for this resolver.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// New creates a Resolver with the given options applied over the defaults.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		encoding: DefaultEncoding,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = Logger()
	}
	return r
}

// AsBuffer resolves v with a one-off Resolver.
func AsBuffer(ctx context.Context, v any, opts ...Option) ([]byte, error) {
	return New(opts...).Resolve(ctx, v)
}

// AsBufferAsync is AsBuffer on its own goroutine.
func AsBufferAsync(ctx context.Context, v any, opts ...Option) *promise.Promise[[]byte] {
	return New(opts...).ResolveAsync(ctx, v)
}

// state is the per-call resolution context. It is passed by value, so each
// step sees its own remaining budget.
type state struct {
	encoding  string
	remaining int
	step      int
}

func (s state) next() state {
	s.remaining--
	s.step++
	return s
}

// Resolve reduces v to bytes. Thunks, callbacks and awaitables are unwrapped
// one layer per step until a terminal value is reached; every unwrap consumes
// one unit of budget before the producer is touched.
func (r *Resolver) Resolve(ctx context.Context, v any) ([]byte, error) {
	return r.resolve(ctx, v, state{encoding: r.encoding, remaining: r.maxDepth})
}

// ResolveAsync is Resolve on its own goroutine.
func (r *Resolver) ResolveAsync(ctx context.Context, v any) *promise.Promise[[]byte] {
	return promise.Go(func() ([]byte, error) {
		return r.Resolve(ctx, v)
	})
}

func (r *Resolver) resolve(ctx context.Context, v any, st state) ([]byte, error) {
	kind := Classify(v)
	if ce := r.log.Check(zap.DebugLevel, "resolve step"); ce != nil {
		ce.Write(
			zap.Stringer("kind", kind),
			zap.Int("step", st.step),
			zap.Int("remaining", st.remaining))
	}

	switch kind {
	case KindNil:
		return []byte{}, nil
	case KindBytes:
		return v.([]byte), nil
	case KindText:
		return encodeLeaf(v, st.encoding)
	case KindStream:
		return stream.Drain(ctx, v, stream.WithEncoding(st.encoding))
	case KindUnsupported:
		err := rferrors.Unsupported(rferrors.PhaseResolve, v)
		err.Depth = st.step
		return nil, err
	}

	st = st.next()
	if st.remaining <= 0 {
		r.log.Debug("resolve budget exhausted", zap.Int("max_depth", r.maxDepth))
		return nil, rferrors.MaxDepthExceeded(r.maxDepth)
	}

	next, err := r.unwrap(ctx, kind, v, st.step)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, next, st)
}

func encodeLeaf(v any, enc string) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return Encode(t, enc)
	case Text:
		if t.Encoding != "" {
			enc = t.Encoding
		}
		return Encode(t.Value, enc)
	}
	return nil, rferrors.Unsupported(rferrors.PhaseEncode, v)
}

// unwrap invokes one deferred layer and returns what it produced.
func (r *Resolver) unwrap(ctx context.Context, kind Kind, v any, step int) (any, error) {
	switch kind {
	case KindThunk:
		return r.callThunk(ctx, v, step)
	case KindCallback:
		return r.callCallback(ctx, v, step)
	default:
		return r.await(ctx, v.(Awaitable), step)
	}
}

func (r *Resolver) callThunk(ctx context.Context, v any, step int) (next any, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug("thunk panicked", zap.Int("step", step), zap.Any("panic", p))
			next, err = nil, rferrors.InvocationFailure(step, promise.PanicError{Value: p})
		}
	}()

	switch fn := v.(type) {
	case Thunk:
		next, err = fn()
	case func() (any, error):
		next, err = fn()
	case func(context.Context) (any, error):
		next, err = fn(ctx)
	case func() any:
		next = fn()
	}
	if err != nil {
		return nil, rferrors.InvocationFailure(step, err)
	}
	return next, nil
}

type outcome struct {
	value any
	err   error
}

func (r *Resolver) callCallback(ctx context.Context, v any, step int) (any, error) {
	var fn func(func(any, error))
	switch cb := v.(type) {
	case Callback:
		fn = cb
	case func(func(any, error)):
		fn = cb
	}

	results := make(chan outcome, 1)
	var once sync.Once
	done := func(result any, err error) {
		once.Do(func() {
			results <- outcome{value: result, err: err}
		})
	}

	if err := invoke(func() { fn(done) }); err != nil {
		r.log.Debug("callback producer panicked", zap.Int("step", step), zap.Error(err))
		return nil, rferrors.InvocationFailure(step, err)
	}

	select {
	case o := <-results:
		if o.err != nil {
			return nil, rferrors.RejectionPropagated(step, o.err)
		}
		return o.value, nil
	case <-ctx.Done():
		return nil, rferrors.Canceled(rferrors.PhaseResolve, ctx.Err())
	}
}

func (r *Resolver) await(ctx context.Context, a Awaitable, step int) (next any, err error) {
	if perr := invoke(func() { next, err = a.AwaitValue(ctx) }); perr != nil {
		return nil, rferrors.RejectionPropagated(step, perr)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, rferrors.Canceled(rferrors.PhaseResolve, err)
		}
		return nil, rferrors.RejectionPropagated(step, err)
	}
	return next, nil
}

// invoke runs fn and converts a panic into an error.
func invoke(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = promise.PanicError{Value: p}
		}
	}()
	fn()
	return nil
}
