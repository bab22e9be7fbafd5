package signal

import (
	"context"
	"slices"
	"sync"
)

// Handler observes emitted values synchronously.
type Handler[T any] func(ctx context.Context, v T)

// Subscriber receives emitted values on a channel.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the
	// subscriber is closed, dropped, or the hub shuts down.
	Receive() <-chan T

	// Close is idempotent.
	Close() error
}

type handlerEntry[T any] struct {
	id int
	fn Handler[T]
}

// Hub is an in-memory fan-out. All methods are safe for concurrent use.
type Hub[T any] struct {
	handlers    []handlerEntry[T]
	nextID      int
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewHub creates a hub whose subscribers buffer bufferSize values.
// The buffer is at least one.
func NewHub[T any](bufferSize int) *Hub[T] {
	return &Hub[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Handle registers fn and returns a function that removes it.
func (h *Hub[T]) Handle(fn Handler[T]) (remove func()) {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.handlers = append(h.handlers, handlerEntry[T]{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.handlers = slices.DeleteFunc(h.handlers, func(e handlerEntry[T]) bool { return e.id == id })
	}
}

// Subscribe creates a channel subscriber that is removed when ctx is done.
// Subscribing to a closed hub returns a closed subscriber.
func (h *Hub[T]) Subscribe(ctx context.Context) Subscriber[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber[T]{ch: make(chan T, h.bufferSize)}
	if h.closed {
		_ = sub.Close()
		return sub
	}
	h.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			select {
			case <-ctx.Done():
			case <-sub.done():
			}
			h.unsubscribe(sub)
		}()
	}

	return sub
}

// Emit offers v to every subscriber, then runs every handler in order.
// Handlers run outside the hub lock and may call back into the hub.
func (h *Hub[T]) Emit(ctx context.Context, v T) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}
	handlers := slices.Clone(h.handlers)
	var slow []*subscriber[T]
	for sub := range h.subscribers {
		if !sub.send(v) {
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.unsubscribe(sub)
	}
	for _, e := range handlers {
		e.fn(ctx, v)
	}
	return nil
}

// Close closes every subscriber and drops every handler. It is idempotent.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for sub := range h.subscribers {
		_ = sub.Close()
	}
	clear(h.subscribers)
	h.handlers = nil
	h.mu.Unlock()

	h.cleanupWg.Wait()
	return nil
}

func (h *Hub[T]) unsubscribe(sub *subscriber[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
	_ = sub.Close()
}

type subscriber[T any] struct {
	ch      chan T
	closed  bool
	closeCh chan struct{}
	once    sync.Once
	mu      sync.RWMutex
}

func (s *subscriber[T]) Receive() <-chan T {
	return s.ch
}

func (s *subscriber[T]) done() <-chan struct{} {
	s.once.Do(func() { s.closeCh = make(chan struct{}) })
	return s.closeCh
}

func (s *subscriber[T]) Close() error {
	s.done()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		close(s.closeCh)
		s.closed = true
	}
	return nil
}

func (s *subscriber[T]) send(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}
