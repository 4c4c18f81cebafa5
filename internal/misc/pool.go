package misc

import "sync"

// Resetter is anything that can wipe itself back to a reusable zero state.
type Resetter interface {
	Reset()
}

// Pool recycles Resetter values, resetting each one as it is returned. The
// transmit path uses it to reuse encode buffers between sends.
type Pool[T Resetter] struct {
	p sync.Pool
}

// NewPool builds a Pool that materializes fresh values with newFn.
func NewPool[T Resetter](newFn func() T) *Pool[T] {
	pl := &Pool[T]{}
	pl.p.New = func() any {
		if newFn != nil {
			return newFn()
		}
		var zero T
		return zero
	}
	return pl
}

// Get retrieves a value from the pool.
func (pl *Pool[T]) Get() T {
	obj := pl.p.Get()
	if value, ok := obj.(T); ok {
		return value
	}
	var zero T
	return zero
}

// Put resets v and returns it to the pool.
func (pl *Pool[T]) Put(v T) {
	v.Reset()
	pl.p.Put(v)
}
