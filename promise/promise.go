// Package promise provides a single-assignment future used by the async
// forms of the resolvefs packages.
//
// A Promise settles exactly once, either fulfilled with a value or rejected
// with an error. Later Resolve/Reject calls are ignored. Waiting is done with
// Await, which honors context cancellation without settling the promise.
//
//	p := promise.Go(func() ([]byte, error) {
//	    return os.ReadFile(path)
//	})
//	data, err := p.Await(ctx)
package promise

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Promise is a value of type T that becomes available at some later point.
type Promise[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// New creates a pending promise.
func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already fulfilled with v.
func Resolved[T any](v T) *Promise[T] {
	p := New[T]()
	p.Resolve(v)
	return p
}

// Rejected returns a promise already rejected with err.
func Rejected[T any](err error) *Promise[T] {
	p := New[T]()
	p.Reject(err)
	return p
}

// Go runs fn on its own goroutine and settles the returned promise with its
// outcome. A panic in fn rejects the promise.
func Go[T any](fn func() (T, error)) *Promise[T] {
	p := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.Reject(PanicError{Value: r})
			}
		}()
		v, err := fn()
		p.settle(v, err)
	}()
	return p
}

// Resolve fulfills the promise. It reports whether this call settled it.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(v, nil)
}

// Reject rejects the promise with err. A nil err is replaced so the
// promise can never be rejected without a reason.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = v
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Done is closed once the promise has settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has been fulfilled or rejected.
func (p *Promise[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx is done.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitValue is Await with the value boxed, which lets a typed promise be
// handed to code that accepts any awaitable.
func (p *Promise[T]) AwaitValue(ctx context.Context) (any, error) {
	v, err := p.Await(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Then chains fn onto p. The returned promise settles with fn's result once
// p is fulfilled, or with p's rejection.
func Then[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	return Go(func() (U, error) {
		v, err := p.Await(context.Background())
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// ErrNilRejection replaces a nil rejection reason.
var ErrNilRejection = errors.New("promise rejected without a reason")

// PanicError carries a value recovered from a panicking producer.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
