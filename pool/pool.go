// Package pool provides a bounded object pool.
//
// The capacity of a Pool is the maximal amount of items handed out at the
// same time; a producer that allocates its buffers from a Pool therefore
// cannot have more buffers in flight than the capacity.
package pool

import (
	"sync"
)

// ReuseMemory may be set to false to hand returned items to the GC instead
// of reusing them (useful to catch use-after-return bugs).
var ReuseMemory = true

type Pool[T any] struct {
	locker    sync.Mutex
	free      []*T
	inUse     uint
	capacity  uint
	AllocFunc func() *T
	ResetFunc func(*T)
}

func NewPool[T any](
	capacity uint,
	allocFunc func() *T,
	resetFunc func(*T),
) *Pool[T] {
	return &Pool[T]{
		free:      make([]*T, 0, capacity),
		capacity:  capacity,
		AllocFunc: allocFunc,
		ResetFunc: resetFunc,
	}
}

// Get returns an item, or false if all the capacity is in use.
func (p *Pool[T]) Get() (*T, bool) {
	p.locker.Lock()
	defer p.locker.Unlock()
	if p.inUse >= p.capacity {
		return nil, false
	}
	p.inUse++
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return item, true
	}
	return p.AllocFunc(), true
}

// Put returns items into the pool, releasing their capacity.
func (p *Pool[T]) Put(items ...*T) {
	p.locker.Lock()
	defer p.locker.Unlock()
	for _, item := range items {
		if p.inUse == 0 {
			panic("returning more items than were taken from the pool")
		}
		p.inUse--
		if !ReuseMemory {
			continue
		}
		if p.ResetFunc != nil {
			p.ResetFunc(item)
		}
		p.free = append(p.free, item)
	}
}

func (p *Pool[T]) InUse() uint {
	p.locker.Lock()
	defer p.locker.Unlock()
	return p.inUse
}

func (p *Pool[T]) Capacity() uint {
	return p.capacity
}
