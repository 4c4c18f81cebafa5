package observer

import (
	"context"
	"sync"
)

// State is a Subject variant that remembers the most recent event. An observer
// attached after a publish is immediately notified with the current value, then
// receives future updates; history is never replayed. Notifications run under
// the subject's lock so every observer sees publishes in the exact order they
// were produced. Observers must not call back into the State from Notify.
type State[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	observers []stateEntry[T]
	current   T
	primed    bool
	onError   func(error)
}

type stateEntry[T any] struct {
	id  uint64
	obs Observer[T]
}

// NewState constructs a State with no current value.
func NewState[T any]() *State[T] {
	return &State[T]{}
}

// Publish stores evt as the current value and notifies observers in attach order.
func (s *State[T]) Publish(ctx context.Context, evt T) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = evt
	s.primed = true
	for _, e := range s.observers {
		s.notifyLocked(ctx, e.obs, evt)
	}
}

// Attach registers obs, replaying the current value when one exists. The
// returned function detaches the observer; calling it twice is harmless.
func (s *State[T]) Attach(ctx context.Context, obs Observer[T]) (detach func()) {
	if s == nil || obs == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, stateEntry[T]{id: id, obs: obs})
	if s.primed {
		s.notifyLocked(ctx, obs, s.current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Current returns the most recently published value, if any.
func (s *State[T]) Current() (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.primed
}

// SetErrorHandler configures a callback for observer failures.
func (s *State[T]) SetErrorHandler(fn func(error)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

func (s *State[T]) notifyLocked(ctx context.Context, obs Observer[T], evt T) {
	if obs == nil {
		return
	}
	if err := obs.Notify(ctx, evt); err != nil && s.onError != nil {
		s.onError(err)
	}
}
