package lease

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRelease_PreventsExpiry(t *testing.T) {
	h := New(WithWindow(30 * time.Millisecond))

	var fired atomic.Int32
	id, err := h.RequestGrant("flush", func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("RequestGrant: %v", err)
	}
	h.Release(id)

	time.Sleep(80 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Fatalf("onExpire fired %d times after Release", n)
	}
	if h.Active() != 0 {
		t.Errorf("active = %d, want 0", h.Active())
	}
}

func TestExpiry_FiresOnceAndClears(t *testing.T) {
	h := New(WithWindow(20 * time.Millisecond))

	expired := make(chan struct{})
	id, err := h.RequestGrant("flush", func() { close(expired) })
	if err != nil {
		t.Fatalf("RequestGrant: %v", err)
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("grant never expired")
	}
	if h.Active() != 0 {
		t.Errorf("active = %d, want 0", h.Active())
	}

	// Releasing after expiry must be a no-op.
	h.Release(id)
	if got := h.Remaining(); got != 0 {
		t.Errorf("remaining = %v, want 0", got)
	}
}

func TestRemaining_TracksLongestGrant(t *testing.T) {
	h := New(WithWindow(time.Hour))

	if got := h.Remaining(); got != 0 {
		t.Fatalf("remaining with no grants = %v, want 0", got)
	}

	a, _ := h.RequestGrant("a", nil)
	b, _ := h.RequestGrant("b", nil)
	if a == b {
		t.Fatalf("handles collide: %v", a)
	}

	got := h.Remaining()
	if got <= 59*time.Minute || got > time.Hour {
		t.Errorf("remaining = %v, want just under an hour", got)
	}

	h.Release(a)
	h.Release(b)
	if got := h.Remaining(); got != 0 {
		t.Errorf("remaining after release = %v, want 0", got)
	}
}
