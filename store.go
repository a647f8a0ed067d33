package hashmap

// The store owns the key/value records and keeps them in insertion order. It
// is a doubly-linked list threaded through a chunked arena: chunks are never
// reallocated, so a record keeps its address until it is removed, and a
// handle (1-based arena index) stays valid while other records come and go.
// Freed records are reused through a free list.

const (
	chunkShift = 8
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
)

// handle of a record in the store. 0 is nil.
type handle int

const nilHandle handle = 0

type record[K comparable, V any] struct {
	key   K
	value V

	prev, next handle
}

type store[K comparable, V any] struct {
	chunks     []*[chunkSize]record[K, V]
	head, tail handle
	// singly-linked through record.next
	free handle
	// handles ever allocated, the arena high-water mark
	allocated int
	len       int
}

func newStore[K comparable, V any](sizeHint int) *store[K, V] {
	s := new(store[K, V])
	if sizeHint > 0 {
		s.chunks = make([]*[chunkSize]record[K, V], 0, (sizeHint+chunkMask)>>chunkShift)
	}
	return s
}

func (s *store[K, V]) at(h handle) *record[K, V] {
	i := int(h) - 1
	return &s.chunks[i>>chunkShift][i&chunkMask]
}

func (s *store[K, V]) alloc() handle {
	if s.free != nilHandle {
		h := s.free
		s.free = s.at(h).next
		return h
	}
	if s.allocated&chunkMask == 0 && s.allocated>>chunkShift == len(s.chunks) {
		s.chunks = append(s.chunks, new([chunkSize]record[K, V]))
	}
	s.allocated++
	return handle(s.allocated)
}

// pushBack appends a record to the end of the sequence.
func (s *store[K, V]) pushBack(key K, value V) handle {
	h := s.alloc()
	r := s.at(h)
	r.key = key
	r.value = value
	r.prev = s.tail
	r.next = nilHandle

	if s.tail == nilHandle {
		s.head = h
	} else {
		s.at(s.tail).next = h
	}
	s.tail = h
	s.len++
	return h
}

// remove unlinks the record and puts its storage on the free list.
func (s *store[K, V]) remove(h handle) {
	r := s.at(h)
	if r.prev == nilHandle {
		s.head = r.next
	} else {
		s.at(r.prev).next = r.next
	}
	if r.next == nilHandle {
		s.tail = r.prev
	} else {
		s.at(r.next).prev = r.prev
	}

	// zero it so that the GC can let go of whatever the key and value point to
	*r = record[K, V]{next: s.free}
	s.free = h
	s.len--
}
