package ecs

// Arena pairs an EntityPool with a Store so objects can be referenced by
// handle instead of by pointer. A handle stops resolving once its object
// is removed, even if the slot has since been reused.
type Arena[T any] struct {
	pool  *EntityPool
	items *Store[T]
}

func NewArena[T any]() *Arena[T] {
	return &Arena[T]{
		pool:  NewEntityPool(),
		items: NewStore[T](),
	}
}

// Insert stores v and returns its new handle.
func (a *Arena[T]) Insert(v *T) EntityID {
	id := a.pool.Create()
	a.items.Set(id, v)
	return id
}

// Get resolves a handle. Stale handles resolve to (nil, false).
func (a *Arena[T]) Get(id EntityID) (*T, bool) {
	if !a.pool.Alive(id) {
		return nil, false
	}
	return a.items.Get(id)
}

func (a *Arena[T]) Alive(id EntityID) bool {
	return a.pool.Alive(id)
}

// Remove releases the handle and drops the stored pointer.
func (a *Arena[T]) Remove(id EntityID) bool {
	if !a.pool.Destroy(id) {
		return false
	}
	a.items.Remove(id)
	return true
}

func (a *Arena[T]) Len() int {
	return a.pool.Len()
}

func (a *Arena[T]) Each(fn func(EntityID, *T)) {
	a.items.Each(fn)
}

// Reset drops every entry and invalidates all outstanding handles.
func (a *Arena[T]) Reset() {
	a.items.Each(func(id EntityID, _ *T) {
		a.pool.Destroy(id)
	})
	a.items.Clear()
}
