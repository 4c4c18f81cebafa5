// Package observer provides small generic publish/subscribe primitives.
//
// Subject fans an event out to every attached observer; State additionally
// remembers the latest value and replays it to late subscribers. The collector
// uses them to broadcast status transitions and delivery outcomes without
// coupling producers to the HTTP layer.
package observer

import (
	"context"
	"sync"
)

// Observer receives events of type T published through a Subject.
type Observer[T any] interface {
	Notify(context.Context, T) error
}

// ObserverFunc adapts a plain function to the Observer interface.
//
//revive:disable-next-line:exported
type ObserverFunc[T any] func(context.Context, T) error

func (f ObserverFunc[T]) Notify(ctx context.Context, ev T) error {
	return f(ctx, ev)
}

// Publisher is the write side of a Subject.
type Publisher[T any] interface {
	Publish(context.Context, T)
}

// Subject delivers each published event to all attached observers, in
// attachment order, under a single lock. Observer errors go to the error
// handler and do not stop delivery to the remaining observers.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []Observer[T]
	onError   func(error)
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Attach registers observers for future events.
func (s *Subject[T]) Attach(observers ...Observer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observers...)
}

// SetErrorHandler installs a callback invoked with every error returned by an
// observer during Publish. A nil handler discards the errors.
func (s *Subject[T]) SetErrorHandler(h func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = h
}

// Publish synchronously notifies every attached observer with ev.
func (s *Subject[T]) Publish(ctx context.Context, ev T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.observers {
		if err := o.Notify(ctx, ev); err != nil && s.onError != nil {
			s.onError(err)
		}
	}
}
