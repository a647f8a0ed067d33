// Package hashmap implements a generic hash map that resolves collisions with
// coalesced hashing with a cellar.
//
// # Layout
//
// The slot table is a primary region, addressed by hash % primary where
// primary is a prime, followed by a cellar of primary*7/43+1 slots. Colliding
// keys are linked into chains by slot index; a chain that runs out of room
// takes the next free slot found by scanning backwards from a cursor that
// starts at the end of the cellar, so the cellar is used up before chains
// start borrowing primary slots. Erased slots become tombstones that keep
// their links.
//
// The map rehashes into a table twice the size before an insert would put
// the load factor (entries / primary) above 1/2, and also when an insert has
// to walk further than about log2(primary) slots while the map is more than
// a quarter full. The table never shrinks.
//
// # Order
//
// Entries live in an insertion-ordered store, separate from the slots. All,
// Keys, Values and Begin/Next iterate in insertion order no matter where the
// keys land in the table.
//
// # Usage
//
//	m := hashmap.New[string, int](0)
//	m.Insert("a", 1)
//	*m.Index("b") += 2
//	v, err := m.At("c") // errors.Is(err, hashmap.ErrKeyNotFound)
//	for k, v := range m.All() {
//	    fmt.Println(k, v)
//	}
//
// A Map is not safe for concurrent use.
package hashmap
