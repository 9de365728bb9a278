package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Hub fans published values out to every live subscription.
// It is safe for concurrent use.
type Hub[T any] struct {
	mu        sync.Mutex
	subs      map[string]*Subscription[T]
	latest    T
	hasLatest bool

	prepare func(T) T
	ids     IDGenerator
	logger  *slog.Logger

	published atomic.Int64
}

// Option configures a Hub.
type Option[T any] func(*Hub[T])

// WithPrepare sets a function applied to a value each time it is queued
// for a subscriber. The value kept for late subscribers is never modified
// by it.
func WithPrepare[T any](fn func(T) T) Option[T] {
	return func(h *Hub[T]) { h.prepare = fn }
}

// WithIDGenerator overrides the subscription id source (default UUIDv7).
func WithIDGenerator[T any](gen IDGenerator) Option[T] {
	return func(h *Hub[T]) { h.ids = gen }
}

// WithLogger sets the hub logger (default slog.Default()).
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(h *Hub[T]) { h.logger = logger }
}

// NewHub creates a hub with no subscribers and nothing published.
func NewHub[T any](opts ...Option[T]) *Hub[T] {
	h := &Hub[T]{
		subs:   make(map[string]*Subscription[T]),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish records v as the latest value and queues it for every
// subscriber. It never blocks on a subscriber and never drops a value.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = v
	h.hasLatest = true
	h.published.Add(1)

	for _, sub := range h.subs {
		h.deliver(sub, v)
	}
	h.logger.Debug("published", "subscribers", len(h.subs))
}

// Subscribe registers a new subscription. If a value has been published,
// the latest one is queued for it first.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := newSubscription(h.ids.Generate(), h)
	h.subs[sub.id] = sub
	if h.hasLatest {
		h.deliver(sub, h.latest)
	}
	h.logger.Debug("subscribed", "subscription", sub.id)
	return sub
}

// Stats returns hub counters.
func (h *Hub[T]) Stats() Stats {
	h.mu.Lock()
	count := len(h.subs)
	h.mu.Unlock()
	return Stats{
		Subscribers: count,
		Published:   h.published.Load(),
	}
}

// Stats contains hub metrics.
type Stats struct {
	Subscribers int   `json:"subscribers"`
	Published   int64 `json:"published"`
}

// deliver queues v, prepared, for sub. Must be called with h.mu held.
func (h *Hub[T]) deliver(sub *Subscription[T], v T) {
	if h.prepare != nil {
		v = h.prepare(v)
	}
	sub.push(v)
}

func (h *Hub[T]) remove(sub *Subscription[T]) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return false
	}
	delete(h.subs, sub.id)
	sub.close()
	h.logger.Debug("unsubscribed", "subscription", sub.id)
	return true
}
