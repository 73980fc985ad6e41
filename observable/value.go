// Package observable provides a watchable value cell.
package observable

import "sync"

// Value holds a T and notifies subscribers on every Set
type Value[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// New creates a Value holding initial
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores value and calls every subscriber with it.
// Subscribers run outside the lock and may call Get or Set.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	subs := make([]func(T), 0, len(v.subs))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers fn and returns a function that removes it
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}
