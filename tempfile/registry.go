package tempfile

import (
	"errors"
	"sync"
)

// ErrRegistryClosed is returned by Acquire once the registry was closed.
var ErrRegistryClosed = errors.New("temp registry closed")

// Handle identifies a live descriptor in a Registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType classifies descriptor lifecycle notifications.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventReleased
	EventKept
	EventCleanupFailed
)

func (t EventType) String() string {
	switch t {
	case EventAcquired:
		return "acquired"
	case EventReleased:
		return "released"
	case EventKept:
		return "kept"
	case EventCleanupFailed:
		return "cleanup_failed"
	default:
		return "unknown"
	}
}

// Event is a descriptor lifecycle notification. Err is set for
// EventCleanupFailed.
type Event struct {
	Err    error
	Path   string
	Handle Handle
	Type   EventType
}

// Observer receives descriptor lifecycle events. Observers are called
// synchronously and must not call back into the registry.
type Observer interface {
	OnTempEvent(Event)
}

// Registry tracks descriptors between Acquire and Release.
type Registry struct {
	entries   []*Descriptor
	freeList  []Handle
	live      int
	mu        sync.Mutex
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	shared    bool // sweeps on Close but keeps accepting descriptors
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry used when no
// registry option is given. Closing it sweeps leftovers but does not stop
// later acquisitions.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.shared = true
	})
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]*Descriptor, 0, 16),
		freeList: make([]Handle, 0, 8),
	}
}

func (r *Registry) insert(d *Descriptor) (Handle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrRegistryClosed
	}

	var h Handle
	if n := len(r.freeList); n > 0 {
		h = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.entries[h-1] = d
	} else {
		r.entries = append(r.entries, d)
		h = Handle(len(r.entries))
	}
	r.live++
	r.mu.Unlock()

	r.notify(Event{Type: EventAcquired, Handle: h, Path: d.Path})
	return h, nil
}

func (r *Registry) remove(h Handle) bool {
	if h == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(r.entries) || r.entries[idx] == nil {
		return false
	}
	r.entries[idx] = nil
	r.freeList = append(r.freeList, h)
	r.live--
	return true
}

// Get returns the live descriptor for h.
func (r *Registry) Get(h Handle) (*Descriptor, bool) {
	if h == 0 {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(r.entries) || r.entries[idx] == nil {
		return nil, false
	}
	return r.entries[idx], true
}

// Len returns the number of live descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Each calls fn for every live descriptor until fn returns false.
func (r *Registry) Each(fn func(Handle, *Descriptor) bool) {
	for h, d := range r.snapshot() {
		if !fn(h, d) {
			return
		}
	}
}

func (r *Registry) snapshot() map[Handle]*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Handle]*Descriptor, r.live)
	for i, d := range r.entries {
		if d != nil {
			out[Handle(i+1)] = d
		}
	}
	return out
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Close stops accepting descriptors and releases every descriptor obtained
// through Acquire that was never released. Descriptors owned by a running
// WithSync or With action are left alone; they are released when their
// action settles. Descriptors created with keep stay on disk.
func (r *Registry) Close() error {
	r.mu.Lock()
	if !r.shared {
		r.closed = true
	}
	r.mu.Unlock()

	// collect first; Release re-enters remove
	for _, d := range r.snapshot() {
		if d.scoped {
			continue
		}
		d.Release()
	}
	return nil
}

func (r *Registry) notify(e Event) {
	if r == nil {
		return
	}
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnTempEvent(e)
	}
}
