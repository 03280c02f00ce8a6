package events

import (
	"sync"
	"sync/atomic"
)

// Subscription is one registered handler. Close releases it exactly once.
type Subscription struct {
	bus    *Bus
	id     uint64
	once   sync.Once
	closed atomic.Bool
}

// Close unregisters the handler. Further calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		s.bus.unsubscribe(s.id)
	})
	return nil
}

// Closed reports whether Close has been called
func (s *Subscription) Closed() bool {
	return s.closed.Load()
}

// Owner holds at most one open subscription on a bus.
// The application creates one Owner at startup and releases it at shutdown.
type Owner struct {
	bus *Bus

	mu  sync.Mutex
	sub *Subscription
}

// NewOwner creates an owner for bus
func NewOwner(bus *Bus) *Owner {
	return &Owner{bus: bus}
}

// Acquire subscribes h unless the owner already holds an open subscription
func (o *Owner) Acquire(h Handler) (*Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sub != nil && !o.sub.Closed() {
		return nil, ErrAlreadySubscribed
	}
	sub, err := o.bus.Subscribe(h)
	if err != nil {
		return nil, err
	}
	o.sub = sub
	return sub, nil
}

// Release closes the held subscription, if any
func (o *Owner) Release() error {
	o.mu.Lock()
	sub := o.sub
	o.sub = nil
	o.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Close()
}

// Held reports whether an open subscription is held
func (o *Owner) Held() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sub != nil && !o.sub.Closed()
}
