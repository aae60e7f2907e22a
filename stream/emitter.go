package stream

import (
	"errors"
	"sync"
)

// ErrPipeClosed is returned by Pipe.Write after End or Fail.
var ErrPipeClosed = errors.New("pipe closed")

// Listener receives the lifecycle events of an Emitter. Nil callbacks are skipped.
// OnText receives chunks emitted as strings; consumers turn them into bytes
// with an encoding of their choice.
type Listener struct {
	OnData  func(chunk []byte)
	OnText  func(chunk string)
	OnEnd   func()
	OnError func(err error)
}

// Emitter is a push-style byte stream with a data/end/error lifecycle.
type Emitter interface {
	// Subscribe attaches l and returns a function that detaches it.
	// The returned function is safe to call more than once.
	Subscribe(l Listener) (unsubscribe func())
}

type event struct {
	err   error
	text  string
	chunk []byte
	kind  uint8
}

const (
	eventData uint8 = iota
	eventText
	eventEnd
	eventError
)

// Pipe is an in-process Emitter fed by Write, End and Fail.
// Events emitted while nobody is subscribed are queued and replayed to the
// first subscriber, so a producer may start before the consumer attaches.
type Pipe struct {
	listeners map[uint64]Listener
	backlog   []event
	nextID    uint64
	emitMu    sync.Mutex
	mu        sync.Mutex
	finished  bool
}

// NewPipe creates an open pipe.
func NewPipe() *Pipe {
	return &Pipe{listeners: make(map[uint64]Listener)}
}

// Subscribe implements Emitter.
func (p *Pipe) Subscribe(l Listener) func() {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	backlog := p.backlog
	p.backlog = nil
	p.mu.Unlock()

	for _, e := range backlog {
		deliver(l, e)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Listeners returns the number of attached listeners.
func (p *Pipe) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// Write emits a data event. The chunk is copied.
func (p *Pipe) Write(chunk []byte) (int, error) {
	c := make([]byte, len(chunk))
	copy(c, chunk)
	if !p.emit(event{kind: eventData, chunk: c}) {
		return 0, ErrPipeClosed
	}
	return len(chunk), nil
}

// WriteString emits a text chunk, delivered to OnText.
func (p *Pipe) WriteString(s string) (int, error) {
	if !p.emit(event{kind: eventText, text: s}) {
		return 0, ErrPipeClosed
	}
	return len(s), nil
}

// End emits the end event. Further writes fail.
func (p *Pipe) End() {
	p.emit(event{kind: eventEnd})
}

// Fail emits an error event. Further writes fail.
func (p *Pipe) Fail(err error) {
	p.emit(event{kind: eventError, err: err})
}

func (p *Pipe) emit(e event) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return false
	}
	if e.kind == eventEnd || e.kind == eventError {
		p.finished = true
	}
	if len(p.listeners) == 0 {
		p.backlog = append(p.backlog, e)
		p.mu.Unlock()
		return true
	}
	targets := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		targets = append(targets, l)
	}
	p.mu.Unlock()

	for _, l := range targets {
		deliver(l, e)
	}
	return true
}

func deliver(l Listener, e event) {
	switch e.kind {
	case eventData:
		if l.OnData != nil {
			l.OnData(e.chunk)
		}
	case eventText:
		if l.OnText != nil {
			l.OnText(e.text)
		}
	case eventEnd:
		if l.OnEnd != nil {
			l.OnEnd()
		}
	case eventError:
		if l.OnError != nil {
			l.OnError(e.err)
		}
	}
}
