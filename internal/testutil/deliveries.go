package testutil

import (
	"testing"
	"time"
)

// Next waits up to timeout for a value on ch.
// Returns false on timeout or if ch is closed.
func Next[T any](ch <-chan T, timeout time.Duration) (T, bool) {
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

// AssertNoDelivery fails the test if a value arrives on ch within wait.
// A closed channel counts as no delivery.
func AssertNoDelivery[T any](t *testing.T, ch <-chan T, wait time.Duration) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("unexpected delivery: %v", v)
		}
	case <-time.After(wait):
	}
}
