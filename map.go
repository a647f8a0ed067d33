package hashmap

import (
	"fmt"
	"hash/maphash"
	"math"
)

// Hasher maps a key to its hash value. It must return the same value for
// equal keys for the lifetime of the map.
type Hasher[K comparable] func(key K) uint64

// defaultHasher hashes any comparable key the same way the builtin map does,
// with a seed picked per map.
func defaultHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// none terminates a collision chain.
const none = -1

// holds the per-slot links. The state of the slot (empty, tombstone, used) is
// in the matching control byte.
type slot struct {
	// index of the next slot in the collision chain, or none
	next int
	// position of this slot in Map.dense, valid iff used
	rev int
	// record in the store, valid iff used
	handle handle
}

// Map is a hash map that resolves collisions with coalesced hashing. The
// table is made of a primary region that keys hash into and a cellar of
// about 7/43 of its size that the collision chains overflow into. When a
// chain ends in a used slot, the next free slot is taken by scanning
// backwards from a cursor (the frontier) and linked onto the chain.
//
// Entries are kept in insertion order, and that is the order of iteration.
//
// Iterators and value pointers survive insertions and erasures of other
// keys, but any operation that rehashes the table (an Insert or Index that
// grows the map, Reserve) invalidates all of them.
//
// A Map is NOT goroutine-safe. The zero value is not usable, use New.
type Map[K comparable, V any] struct {
	hasher Hasher[K]

	// len(ctrls) == len(slots) == primary + cellarSize(primary)
	ctrls []tophash
	slots []slot

	// dense holds the slot index of every used slot, slots[dense[i]].rev == i.
	// Erase swaps the last entry into the hole so it never needs a scan.
	dense []int

	values *store[K, V]

	// Number of slots addressable by hash % primary. Always a prime from the
	// primes table.
	primary uint64
	// Where the search for a free slot resumes, moves backwards.
	frontier int
}

// New makes an empty map with room for initialCapacity entries before the
// first rehash. By default keys are hashed with hash/maphash, see WithHasher.
func New[K comparable, V any](initialCapacity int, options ...Option[K, V]) *Map[K, V] {
	m := new(Map[K, V])
	for _, op := range options {
		op(m)
	}
	if m.hasher == nil {
		m.hasher = defaultHasher[K]()
	}

	var capacity uint64
	if initialCapacity > 0 {
		capacity = uint64(initialCapacity) * 2
	}
	primary, err := checkedPrime(capacity)
	if err != nil {
		panic(err)
	}
	m.init(primary, initialCapacity)
	m.checkInvariants()
	return m
}

// Pair is one key and its value, the element type for bulk construction.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// FromPairs makes a map holding pairs, sized so that loading them causes no
// rehash. When a key repeats, its first value wins.
func FromPairs[K comparable, V any](pairs []Pair[K, V], options ...Option[K, V]) *Map[K, V] {
	m := New[K, V](len(pairs), options...)
	for i := range pairs {
		m.Insert(pairs[i].Key, pairs[i].Value)
	}
	return m
}

// init installs an empty table with the given primary size.
func (m *Map[K, V]) init(primary uint64, sizeHint int) {
	total := int(primary + cellarSize(primary))

	m.primary = primary
	m.ctrls = make([]tophash, total)
	m.slots = make([]slot, total)
	for i := range m.slots {
		m.slots[i].next = none
	}
	m.dense = make([]int, 0, sizeHint)
	m.values = newStore[K, V](sizeHint)
	m.frontier = total - 1
}

// checkedPrime returns the primary size for a table of at least minCapacity
// slots, or ErrCapacityExhausted if no such table can be allocated.
func checkedPrime(minCapacity uint64) (uint64, error) {
	primary, ok := nextPrime(minCapacity)
	if !ok || primary > math.MaxInt || primary+cellarSize(primary) > math.MaxInt {
		return 0, fmt.Errorf("%w: %d slots requested", ErrCapacityExhausted, minCapacity)
	}
	return primary, nil
}

// rehash moves every entry, in iteration order, into a fresh table whose
// primary region has at least minCapacity slots.
func (m *Map[K, V]) rehash(minCapacity uint64) error {
	primary, err := checkedPrime(minCapacity)
	if err != nil {
		return err
	}

	old := m.values
	m.init(primary, old.len)
	for h := old.head; h != nilHandle; {
		r := old.at(h)
		m.insertNew(r.key, r.value, m.hasher(r.key))
		h = r.next
	}
	return nil
}

// grow doubles the primary region.
func (m *Map[K, V]) grow() {
	want := uint64(math.MaxUint64)
	if m.primary <= math.MaxUint64/2 {
		want = m.primary * 2
	}
	if err := m.rehash(want); err != nil {
		panic(fmt.Errorf("%w: cannot grow past primary size %d", err, m.primary))
	}
}

// purge rebuilds the table at its current size, dropping the tombstones.
func (m *Map[K, V]) purge() {
	if err := m.rehash(m.primary); err != nil {
		panic(err) // the current size was allocatable a moment ago
	}
}

// find returns the slot holding key, or none.
func (m *Map[K, V]) find(key K, hash uint64) int {
	tophash8 := fixTophash(uint8(hash >> 56))
	pos := int(hash % m.primary)
	for pos != none {
		ctrl := m.ctrls[pos]
		if ctrl == tophashEmpty {
			// Never used, so no chain was ever linked through it.
			return none
		}
		if ctrl == tophash8 && m.values.at(m.slots[pos].handle).key == key {
			return pos
		}
		pos = m.slots[pos].next
	}
	return none
}

type scanResult uint8

const (
	scanFound scanResult = iota
	// the chain plus the scan got longer than the probe ceiling
	scanTooLong
	// went all the way around without finding a slot
	scanExhausted
)

// takeFreeSlot scans backwards from the frontier, wrapping around, for a slot
// that can be linked onto a chain that is dist links long. A tombstone that
// still links onward can't be taken: it may sit upstream of the chain end and
// linking to it would close a cycle.
func (m *Map[K, V]) takeFreeSlot(dist int) (int, scanResult) {
	limit := maxProbe(m.primary)
	// A bad hash function can cluster keys at any load. Only insist on the
	// probe ceiling once the map is big enough for a rehash to pay off.
	enforce := uint64(len(m.dense))*4 > m.primary

	total := len(m.ctrls)
	pos := m.frontier
	for scanned := 0; scanned < total; {
		lo := pos - (groupSize - 1)
		if lo < 0 {
			lo = 0
		}

		free := freeSlots(m.ctrls[lo : pos+1])
		for ; free.HasCurrent(); free.Retreat() {
			idx := lo + int(free.Last())
			if m.slots[idx].next != none {
				continue
			}
			steps := scanned + pos - idx
			if steps > 0 && enforce && dist+steps > limit {
				return none, scanTooLong
			}
			m.frontier = idx
			return idx, scanFound
		}

		scanned += pos - lo + 1
		if enforce && dist+scanned > limit {
			return none, scanTooLong
		}
		pos = lo - 1
		if pos < 0 {
			pos = total - 1
		}
	}
	return none, scanExhausted
}

// insertNew stores a key that is known to be absent and returns its slot.
func (m *Map[K, V]) insertNew(key K, value V, hash uint64) int {
	for {
		// Keep the load factor at or below 1/2 once this entry is in.
		if uint64(len(m.dense)+1)*2 > m.primary {
			m.grow()
		}

		pos := int(hash % m.primary)
		if !isMarkerTophash(m.ctrls[pos]) {
			// Walk to the end of the chain. A tombstone on the way can be
			// reused in place, it's already linked.
			dist := 0
			for m.slots[pos].next != none && m.ctrls[pos] != tophashTombstone {
				pos = m.slots[pos].next
				dist++
			}

			if !isMarkerTophash(m.ctrls[pos]) {
				free, res := m.takeFreeSlot(dist)
				switch res {
				case scanTooLong:
					m.grow()
					continue
				case scanExhausted:
					m.purge()
					continue
				}
				m.slots[pos].next = free
				pos = free
			}
		}

		h := m.values.pushBack(key, value)
		m.ctrls[pos] = fixTophash(uint8(hash >> 56))
		s := &m.slots[pos]
		s.handle = h
		s.rev = len(m.dense)
		m.dense = append(m.dense, pos)
		return pos
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.dense)
}

// Empty reports whether the map has no entries.
func (m *Map[K, V]) Empty() bool {
	return len(m.dense) == 0
}

// Insert adds key with value and reports true. If key is already present the
// map is left unchanged and Insert reports false.
func (m *Map[K, V]) Insert(key K, value V) bool {
	hash := m.hasher(key)
	if m.find(key, hash) != none {
		return false
	}
	m.insertNew(key, value, hash)
	m.checkInvariants()
	return true
}

// Erase removes key and reports whether it was present.
func (m *Map[K, V]) Erase(key K) bool {
	pos := m.find(key, m.hasher(key))
	if pos == none {
		return false
	}

	s := &m.slots[pos]
	last := m.dense[len(m.dense)-1]
	m.dense[s.rev] = last
	m.slots[last].rev = s.rev
	m.dense = m.dense[:len(m.dense)-1]

	m.values.remove(s.handle)
	s.handle = nilHandle
	// The next link stays, the rest of the chain is reached through it.
	m.ctrls[pos] = tophashTombstone

	m.checkInvariants()
	return true
}

// Clear removes all entries. The table keeps its size.
func (m *Map[K, V]) Clear() {
	clear(m.ctrls)
	for i := range m.slots {
		m.slots[i] = slot{next: none}
	}
	m.dense = m.dense[:0]
	m.values = newStore[K, V](0)
	m.frontier = len(m.ctrls) - 1
	m.checkInvariants()
}

// At returns the value for key, or an error wrapping ErrKeyNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	pos := m.find(key, m.hasher(key))
	if pos == none {
		var zerov V
		return zerov, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return m.values.at(m.slots[pos].handle).value, nil
}

// Get returns the value for key and whether it was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	pos := m.find(key, m.hasher(key))
	if pos == none {
		var zerov V
		return zerov, false
	}
	return m.values.at(m.slots[pos].handle).value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.find(key, m.hasher(key)) != none
}

// Index returns a pointer to the value for key, inserting the zero value
// first if the key is absent.
func (m *Map[K, V]) Index(key K) *V {
	hash := m.hasher(key)
	pos := m.find(key, hash)
	if pos == none {
		var zerov V
		pos = m.insertNew(key, zerov, hash)
		m.checkInvariants()
	}
	return &m.values.at(m.slots[pos].handle).value
}

// Reserve makes room for n entries in total so that inserting up to that many
// does not rehash. It never shrinks the table.
func (m *Map[K, V]) Reserve(n int) error {
	if n <= 0 {
		return nil
	}
	want := uint64(n) * 2
	if want <= m.primary {
		return nil
	}
	if err := m.rehash(want); err != nil {
		return err
	}
	m.checkInvariants()
	return nil
}

// HashFunction returns the hasher the map was made with.
func (m *Map[K, V]) HashFunction() Hasher[K] {
	return m.hasher
}

// Clone returns a deep copy with the same hasher and table size. Changes to
// either map are not seen by the other.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{hasher: m.hasher}
	c.copyFrom(m)
	return c
}

// CopyFrom replaces the contents of m with a deep copy of src, including its
// hasher and table size.
func (m *Map[K, V]) CopyFrom(src *Map[K, V]) {
	if m == src {
		return
	}
	m.hasher = src.hasher
	m.copyFrom(src)
}

func (m *Map[K, V]) copyFrom(src *Map[K, V]) {
	m.init(src.primary, src.Len())
	for h := src.values.head; h != nilHandle; {
		r := src.values.at(h)
		m.insertNew(r.key, r.value, m.hasher(r.key))
		h = r.next
	}
	m.checkInvariants()
}
