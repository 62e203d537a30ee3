package pool

import (
	"errors"
	"fmt"
)

// ErrCapacityExhausted reports an Acquire against an empty fixed-size pool.
// Pools are sized per type up front; running one dry is a configuration
// error, not a condition to recover from silently.
var ErrCapacityExhausted = errors.New("pool: capacity exhausted")

// Hooks customize instance lifecycle. OnRelease must park the instance in its
// canonical idle state; it also runs once per instance at warm-up.
type Hooks[T any] struct {
	OnAcquire func(*T)
	OnRelease func(*T)
	OnDestroy func(*T)
}

// Pool is a fixed arena of pre-created instances with a free-list stack of
// slot indices, giving O(1) acquire and release. Every instance is in exactly
// one of {in-pool, checked-out}. When expandBy is positive, an exhausted pool
// grows by that batch size instead of failing.
type Pool[T any] struct {
	factory  func() *T
	hooks    Hooks[T]
	expandBy int

	slots  []*T
	free   []int
	inPool []bool
	index  map[*T]int
}

// New warms up the pool with the full fixed capacity. expandBy of zero
// disables growth.
func New[T any](capacity, expandBy int, factory func() *T, hooks Hooks[T]) (*Pool[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("pool capacity must be positive, got %d", capacity)
	}
	if expandBy < 0 {
		return nil, fmt.Errorf("pool expandBy cannot be negative, got %d", expandBy)
	}
	if factory == nil {
		return nil, errors.New("pool factory is required")
	}

	p := &Pool[T]{
		factory:  factory,
		hooks:    hooks,
		expandBy: expandBy,
		index:    make(map[*T]int, capacity),
	}
	p.grow(capacity)
	return p, nil
}

func (p *Pool[T]) grow(count int) {
	for i := 0; i < count; i++ {
		instance := p.factory()
		idx := len(p.slots)
		p.slots = append(p.slots, instance)
		p.inPool = append(p.inPool, true)
		p.free = append(p.free, idx)
		p.index[instance] = idx
		if p.hooks.OnRelease != nil {
			p.hooks.OnRelease(instance)
		}
	}
}

// Acquire checks an instance out of the pool. With expansion disabled an
// empty pool fails fast with ErrCapacityExhausted.
func (p *Pool[T]) Acquire() (*T, error) {
	if len(p.free) == 0 {
		if p.expandBy <= 0 {
			return nil, ErrCapacityExhausted
		}
		p.grow(p.expandBy)
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inPool[idx] = false

	instance := p.slots[idx]
	if p.hooks.OnAcquire != nil {
		p.hooks.OnAcquire(instance)
	}
	return instance, nil
}

// Release parks a checked-out instance back into the pool. Instances the pool
// never created, and instances already parked, are ignored.
func (p *Pool[T]) Release(instance *T) {
	idx, ok := p.index[instance]
	if !ok || p.inPool[idx] {
		return
	}
	if p.hooks.OnRelease != nil {
		p.hooks.OnRelease(instance)
	}
	p.inPool[idx] = true
	p.free = append(p.free, idx)
}

// ReturnAll parks every checked-out instance. Calling it again immediately is
// a no-op.
func (p *Pool[T]) ReturnAll() {
	for idx, parked := range p.inPool {
		if parked {
			continue
		}
		instance := p.slots[idx]
		if p.hooks.OnRelease != nil {
			p.hooks.OnRelease(instance)
		}
		p.inPool[idx] = true
		p.free = append(p.free, idx)
	}
}

// Destroy runs the destroy hook on every instance and empties the pool.
func (p *Pool[T]) Destroy() {
	if p.hooks.OnDestroy != nil {
		for _, instance := range p.slots {
			p.hooks.OnDestroy(instance)
		}
	}
	p.slots = nil
	p.free = nil
	p.inPool = nil
	p.index = make(map[*T]int)
}

// Capacity reports the total number of instances owned by the pool.
func (p *Pool[T]) Capacity() int { return len(p.slots) }

// Available reports how many instances are currently parked.
func (p *Pool[T]) Available() int { return len(p.free) }
