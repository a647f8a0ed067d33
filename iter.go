package hashmap

import "iter"

// Iterator points at one entry of a Map, or past the end. Iterators are
// values and compare equal when they point at the same entry, so
//
//	if m.Find(k) == m.End() { ... }
//
// tests for absence. An iterator stays valid while other keys are inserted or
// erased but not across a rehash.
type Iterator[K comparable, V any] struct {
	s *store[K, V]
	h handle
}

func makeIterator[K comparable, V any](s *store[K, V], h handle) Iterator[K, V] {
	if h == nilHandle {
		return Iterator[K, V]{}
	}
	return Iterator[K, V]{s: s, h: h}
}

// Valid reports whether it points at an entry.
func (it Iterator[K, V]) Valid() bool {
	return it.h != nilHandle
}

// Key of the entry. Panics on the end iterator.
func (it Iterator[K, V]) Key() K {
	return it.s.at(it.h).key
}

// Value of the entry. Panics on the end iterator.
func (it Iterator[K, V]) Value() V {
	return it.s.at(it.h).value
}

// SetValue overwrites the value of the entry in place.
func (it Iterator[K, V]) SetValue(v V) {
	it.s.at(it.h).value = v
}

// Next returns an iterator to the following entry in insertion order.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	return makeIterator(it.s, it.s.at(it.h).next)
}

// Begin returns an iterator to the oldest entry, or End if the map is empty.
func (m *Map[K, V]) Begin() Iterator[K, V] {
	return makeIterator(m.values, m.values.head)
}

// End returns the past-the-end iterator.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{}
}

// Find returns an iterator to key's entry, or End.
func (m *Map[K, V]) Find(key K) Iterator[K, V] {
	pos := m.find(key, m.hasher(key))
	if pos == none {
		return m.End()
	}
	return makeIterator(m.values, m.slots[pos].handle)
}

// All yields the entries in insertion order.
//
// The loop body may Erase the key it was handed. Any other change to the map
// during the loop leaves the rest of the iteration undefined.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s := m.values
		for h := s.head; h != nilHandle; {
			r := s.at(h)
			next := r.next
			if !yield(r.key, r.value) {
				return
			}
			h = next
		}
	}
}

// Keys yields the keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields the values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Collect builds a map from seq, as FromPairs does.
func Collect[K comparable, V any](seq iter.Seq2[K, V], options ...Option[K, V]) *Map[K, V] {
	var pairs []Pair[K, V]
	for k, v := range seq {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
	}
	return FromPairs(pairs, options...)
}
