package ecs

// Store is a generic map from handle to value pointer.
type Store[T any] struct {
	data map[EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 32),
	}
}

func (s *Store[T]) Set(id EntityID, v *T) {
	s.data[id] = v
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits every entry in unspecified order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, v := range s.data {
		fn(id, v)
	}
}

func (s *Store[T]) Clear() {
	clear(s.data)
}
