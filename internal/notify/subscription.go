package notify

import (
	"context"
	"sync"
)

// Subscription receives every value published to a Hub after it was
// created, in publish order.
//
// Values queue without bound until they are taken, either with Next and
// TryNext or through the channel returned by C. Use one style per
// subscription: once C has been called its forwarder takes values off the
// queue.
type Subscription[T any] struct {
	id  string
	hub *Hub[T]

	mu      sync.Mutex
	pending []T
	closed  bool
	ready   chan struct{} // one token: "pending may be non-empty"
	done    chan struct{} // closed by Unsubscribe

	chOnce sync.Once
	ch     chan T
}

func newSubscription[T any](id string, hub *Hub[T]) *Subscription[T] {
	return &Subscription[T]{
		id:    id,
		hub:   hub,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// ID returns the subscription identifier.
func (s *Subscription[T]) ID() string { return s.id }

// TryNext takes the oldest queued value without blocking.
func (s *Subscription[T]) TryNext() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.pending) == 0 {
		return zero, false
	}
	v := s.pending[0]
	s.pending[0] = zero
	s.pending = s.pending[1:]
	return v, true
}

// Next blocks until a value is queued and takes it. It returns false if
// ctx is done or the subscription is unsubscribed first.
func (s *Subscription[T]) Next(ctx context.Context) (T, bool) {
	for {
		if v, ok := s.TryNext(); ok {
			return v, true
		}
		select {
		case <-s.ready:
		case <-s.done:
			var zero T
			return zero, false
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// C returns a channel carrying the queued values in order. The first call
// starts a forwarding goroutine that runs until Unsubscribe, after which
// the channel is closed.
func (s *Subscription[T]) C() <-chan T {
	s.chOnce.Do(func() {
		s.ch = make(chan T)
		go s.forward()
	})
	return s.ch
}

// Unsubscribe detaches the subscription, drops anything still queued and
// closes the channel returned by C. Calling it more than once is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	s.hub.remove(s)
}

// push queues v. It never blocks.
func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, v)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.pending = nil
	close(s.done)
}

func (s *Subscription[T]) forward() {
	defer close(s.ch)
	for {
		v, ok := s.Next(context.Background())
		if !ok {
			return
		}
		select {
		case s.ch <- v:
		case <-s.done:
			return
		}
	}
}
