// Package events carries worker progress notifications to their consumers.
//
// A Bus owns a FIFO queue drained by one delivery goroutine, so events reach
// handlers in publish order and handlers never run concurrently with each other.
package events

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
)

var (
	// ErrBusClosed is returned by operations on a closed bus
	ErrBusClosed = errors.New("event bus closed")

	// ErrAlreadySubscribed is returned when an Owner already holds an open subscription
	ErrAlreadySubscribed = errors.New("subscription already established")
)

// Handler receives one progress event
type Handler func(model.ProgressEvent)

// Publisher is the side of the bus the worker talks to
type Publisher interface {
	Publish(ev model.ProgressEvent) error
}

// Bus is the shared inbound channel for progress notifications
type Bus struct {
	logger *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []model.ProgressEvent
	pending  int // queued plus in delivery
	handlers map[uint64]Handler
	nextID   uint64
	closed   bool

	dropped atomic.Int64
	done    chan struct{}
}

// NewBus creates a bus and starts its delivery goroutine
func NewBus(logger *slog.Logger) *Bus {
	b := &Bus{
		logger:   logging.NewComponentLogger(logger, "events"),
		handlers: make(map[uint64]Handler),
		done:     make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	go b.run()
	return b
}

// Publish enqueues ev. It never blocks on handlers.
func (b *Bus) Publish(ev model.ProgressEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	b.queue = append(b.queue, ev)
	b.pending++
	b.cond.Broadcast()
	return nil
}

// PublishJSON decodes a wire notification and publishes it.
// Malformed payloads are logged and dropped; they are not an error for the caller.
func (b *Bus) PublishJSON(data []byte) error {
	ev, err := model.DecodeProgressEvent(data)
	if err != nil {
		b.dropped.Add(1)
		b.logger.Warn("dropping malformed progress event", slog.String("error", err.Error()), slog.Int("bytes", len(data)))
		return nil
	}
	return b.Publish(ev)
}

// Dropped returns how many malformed payloads were discarded
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribe registers h. The returned Subscription must be closed by the caller.
func (b *Bus) Subscribe(h Handler) (*Subscription, error) {
	if h == nil {
		return nil, fmt.Errorf("subscribe: nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.logger.Debug("subscribed", slog.Uint64("id", id), slog.Int("subscribers", len(b.handlers)))
	return &Subscription{bus: b, id: id}, nil
}

// Subscribers returns the number of registered handlers
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Flush blocks until every event published so far has been delivered
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.pending > 0 {
		b.cond.Wait()
	}
}

// Close stops accepting events, delivers what is queued and stops the goroutine.
// Calling Close more than once is safe.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return nil
	}
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()

	<-b.done
	return nil
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	b.logger.Debug("unsubscribed", slog.Uint64("id", id), slog.Int("subscribers", len(b.handlers)))
}

// run is the single delivery loop
func (b *Bus) run() {
	defer close(b.done)

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if len(b.queue) == 0 && b.closed {
			b.mu.Unlock()
			return
		}

		ev := b.queue[0]
		b.queue[0] = model.ProgressEvent{}
		b.queue = b.queue[1:]

		ids := make([]uint64, 0, len(b.handlers))
		for id := range b.handlers {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		handlers := make([]Handler, 0, len(ids))
		for _, id := range ids {
			handlers = append(handlers, b.handlers[id])
		}
		b.mu.Unlock()

		for _, h := range handlers {
			b.deliver(h, ev)
		}

		b.mu.Lock()
		b.pending--
		b.cond.Broadcast()
		b.mu.Unlock()
	}
}

// deliver calls h and keeps the loop alive if it panics
func (b *Bus) deliver(h Handler, ev model.ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("progress handler panicked", slog.Any("panic", r), slog.String("kind", ev.Kind().String()))
		}
	}()
	h(ev)
}
