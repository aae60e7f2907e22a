package value

import (
	"context"
	"io"
	"reflect"

	"github.com/wippyai/resolvefs/stream"
)

// Kind is the closed set of value shapes the resolver understands.
type Kind uint8

const (
	KindNil Kind = iota
	KindBytes
	KindText
	KindStream
	KindThunk
	KindCallback
	KindAwaitable
	KindUnsupported
)

var kindNames = [...]string{
	KindNil:         "nil",
	KindBytes:       "bytes",
	KindText:        "text",
	KindStream:      "stream",
	KindThunk:       "thunk",
	KindCallback:    "callback",
	KindAwaitable:   "awaitable",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Terminal reports whether a value of this kind ends resolution without
// producing another value to resolve.
func (k Kind) Terminal() bool {
	switch k {
	case KindThunk, KindCallback, KindAwaitable:
		return false
	default:
		return true
	}
}

// Thunk is a zero-argument producer of a deferred value.
type Thunk func() (any, error)

// Callback produces its value by calling done, possibly later and possibly
// from another goroutine. Only the first call to done counts.
type Callback func(done func(result any, err error))

// Awaitable is a value that settles later. *promise.Promise[T] implements it.
type Awaitable interface {
	AwaitValue(ctx context.Context) (any, error)
}

// Text is a string leaf that carries its own encoding. An empty Encoding
// falls back to the resolver's encoding.
type Text struct {
	Value    string
	Encoding string
}

// Classify maps v onto a Kind. The accepted Go shapes are:
//
//	KindNil        nil, a nil []byte, a typed nil stream, callable or awaitable
//	KindBytes      []byte
//	KindText       string, Text
//	KindStream     stream.Emitter, io.Reader
//	KindThunk      Thunk, func() any, func() (any, error), func(context.Context) (any, error)
//	KindCallback   Callback, func(func(any, error))
//	KindAwaitable  Awaitable
//
// Anything else is KindUnsupported.
func Classify(v any) Kind {
	k := classify(v)
	switch k {
	case KindStream, KindThunk, KindCallback, KindAwaitable:
		if isNilRef(v) {
			return KindNil
		}
	}
	return k
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

func classify(v any) Kind {
	switch b := v.(type) {
	case nil:
		return KindNil
	case []byte:
		if b == nil {
			return KindNil
		}
		return KindBytes
	case string, Text:
		return KindText
	case stream.Emitter, io.Reader:
		return KindStream
	case Thunk, func() any, func() (any, error), func(context.Context) (any, error):
		return KindThunk
	case Callback, func(func(any, error)):
		return KindCallback
	case Awaitable:
		return KindAwaitable
	default:
		return KindUnsupported
	}
}
