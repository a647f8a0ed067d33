package hashmap

import (
	"fmt"
	"strings"
)

// When set, every mutating operation validates the whole table and panics
// on the first broken invariant. Very slow.
const invariants = false

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if err := m.validate(); err != nil {
			panic(fmt.Sprintf("invariant failed: %v\n%s", err, m.DebugString()))
		}
	}
}

// validate walks the whole table and reports the first inconsistency.
func (m *Map[K, V]) validate() error {
	if _, ok := primeIndex(m.primary); !ok {
		return fmt.Errorf("primary size %d is not a tabulated prime", m.primary)
	}
	total := int(m.primary + cellarSize(m.primary))
	if len(m.ctrls) != total || len(m.slots) != total {
		return fmt.Errorf("got %d ctrls and %d slots, want %d", len(m.ctrls), len(m.slots), total)
	}
	if uint64(len(m.dense))*2 > m.primary {
		return fmt.Errorf("load factor over 1/2: %d entries, primary size %d", len(m.dense), m.primary)
	}
	if m.frontier < 0 || m.frontier >= total {
		return fmt.Errorf("frontier %d outside of [0, %d)", m.frontier, total)
	}

	used, _ := countCtrls(m.ctrls)
	if used != len(m.dense) {
		return fmt.Errorf("found %d used slots, but dense has %d", used, len(m.dense))
	}
	if m.values.len != len(m.dense) {
		return fmt.Errorf("store has %d records, but dense has %d", m.values.len, len(m.dense))
	}
	for i, pos := range m.dense {
		if isMarkerTophash(m.ctrls[pos]) {
			return fmt.Errorf("dense[%d] = %d is not a used slot", i, pos)
		}
		if m.slots[pos].rev != i {
			return fmt.Errorf("slot %d has rev %d, but is at dense[%d]", pos, m.slots[pos].rev, i)
		}
	}

	// Every link walk is bounded by the number of slots, a longer walk means
	// a cycle.
	for pos := range m.slots {
		n := 0
		for next := m.slots[pos].next; next != none; next = m.slots[next].next {
			if next < 0 || next >= total {
				return fmt.Errorf("slot %d links to %d, outside of the table", pos, next)
			}
			if n++; n > total {
				return fmt.Errorf("cycle in the chain through slot %d", pos)
			}
		}
	}

	// Every entry is found from its home slot, and the store is in order.
	var seen int
	prev := nilHandle
	for h := m.values.head; h != nilHandle; h = m.values.at(h).next {
		r := m.values.at(h)
		if r.prev != prev {
			return fmt.Errorf("record %d has prev %d, want %d", h, r.prev, prev)
		}
		pos := m.find(r.key, m.hasher(r.key))
		if pos == none {
			return fmt.Errorf("key %v not found", r.key)
		}
		if m.slots[pos].handle != h {
			return fmt.Errorf("key %v found at slot %d, which holds record %d, not %d", r.key, pos, m.slots[pos].handle, h)
		}
		prev = h
		if seen++; seen > m.values.len {
			return fmt.Errorf("store list is longer than its length %d", m.values.len)
		}
	}
	if prev != m.values.tail {
		return fmt.Errorf("store ends at %d, but tail is %d", prev, m.values.tail)
	}
	if seen != m.values.len {
		return fmt.Errorf("walked %d records, store length is %d", seen, m.values.len)
	}
	return nil
}

// Stats describes the shape of the table.
type Stats struct {
	Len         int
	PrimarySize uint64
	CellarSize  uint64
	Tombstones  int
	// Len / PrimarySize, at most 0.5
	LoadFactor float64
	// Longest walk, in links, from a primary slot to the end of its chain.
	LongestChain int
	// Probe ceiling for the current primary size.
	MaxProbe int
}

// Stats computes table statistics. It walks the whole table.
func (m *Map[K, V]) Stats() Stats {
	_, tombs := countCtrls(m.ctrls)
	st := Stats{
		Len:         len(m.dense),
		PrimarySize: m.primary,
		CellarSize:  cellarSize(m.primary),
		Tombstones:  tombs,
		LoadFactor:  float64(len(m.dense)) / float64(m.primary),
		MaxProbe:    maxProbe(m.primary),
	}
	for pos := 0; pos < int(m.primary); pos++ {
		if m.ctrls[pos] == tophashEmpty {
			continue
		}
		n := 0
		for next := m.slots[pos].next; next != none; next = m.slots[next].next {
			n++
		}
		st.LongestChain = max(st.LongestChain, n)
	}
	return st
}

// DebugString dumps the table one slot per line.
func (m *Map[K, V]) DebugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "primary=%d  cellar=%d  len=%d  frontier=%d\n",
		m.primary, cellarSize(m.primary), len(m.dense), m.frontier)
	for i, ctrl := range m.ctrls {
		region := "p"
		if uint64(i) >= m.primary {
			region = "c"
		}
		next := "-"
		if m.slots[i].next != none {
			next = fmt.Sprint(m.slots[i].next)
		}
		switch ctrl {
		case tophashEmpty:
			fmt.Fprintf(&buf, "  %s%4d: empty  next=%s\n", region, i, next)
		case tophashTombstone:
			fmt.Fprintf(&buf, "  %s%4d: deleted  next=%s\n", region, i, next)
		default:
			r := m.values.at(m.slots[i].handle)
			fmt.Fprintf(&buf, "  %s%4d: %v [ctrl=%02x rev=%d]  next=%s\n", region, i, r.key, ctrl, m.slots[i].rev, next)
		}
	}
	return buf.String()
}
