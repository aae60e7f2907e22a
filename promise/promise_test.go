package promise

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestPromise_ResolveOnce(t *testing.T) {
	p := New[int]()
	if p.Settled() {
		t.Fatal("new promise should be pending")
	}
	if !p.Resolve(1) {
		t.Fatal("first Resolve should settle")
	}
	if p.Resolve(2) {
		t.Error("second Resolve should be ignored")
	}
	if p.Reject(errors.New("late")) {
		t.Error("Reject after Resolve should be ignored")
	}

	v, err := p.Await(context.Background())
	if err != nil || v != 1 {
		t.Errorf("Await = %v, %v; want 1, nil", v, err)
	}
}

func TestPromise_RejectNil(t *testing.T) {
	p := Rejected[string](nil)
	_, err := p.Await(context.Background())
	if !errors.Is(err, ErrNilRejection) {
		t.Errorf("err = %v, want ErrNilRejection", err)
	}
}

func TestPromise_AwaitCanceled(t *testing.T) {
	p := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if p.Settled() {
		t.Error("canceled wait must not settle the promise")
	}
}

func TestGo(t *testing.T) {
	ctx := context.Background()

	v, err := Go(func() (string, error) { return "ok", nil }).Await(ctx)
	if err != nil || v != "ok" {
		t.Errorf("Await = %q, %v", v, err)
	}

	boom := errors.New("boom")
	_, err = Go(func() (string, error) { return "", boom }).Await(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}

	_, err = Go(func() (string, error) { panic(boom) }).Await(ctx)
	var pe PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PanicError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("PanicError should unwrap to the panicked error")
	}
}

func TestAwaitValue(t *testing.T) {
	v, err := Resolved(7).AwaitValue(context.Background())
	if err != nil || v.(int) != 7 {
		t.Errorf("AwaitValue = %v, %v", v, err)
	}

	v, err = Rejected[int](errors.New("x")).AwaitValue(context.Background())
	if err == nil || v != nil {
		t.Errorf("AwaitValue = %v, %v; want nil, error", v, err)
	}
}

func TestThen(t *testing.T) {
	p := Then(Resolved(41), func(n int) (string, error) {
		return strconv.Itoa(n + 1), nil
	})
	v, err := p.Await(context.Background())
	if err != nil || v != "42" {
		t.Errorf("Then = %q, %v", v, err)
	}

	boom := errors.New("boom")
	called := false
	p = Then(Rejected[int](boom), func(int) (string, error) {
		called = true
		return "", nil
	})
	if _, err := p.Await(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if called {
		t.Error("fn must not run for a rejected source")
	}
}
