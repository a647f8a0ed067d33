package hashmap

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// Every slot has a control byte. A used slot stores 7 bits of the hash of its
// key so that most mismatches along a chain are rejected without comparing
// keys.
type tophash = uint8

const (
	tophashEmpty     tophash = 0b0000_0000
	tophashTombstone tophash = 0b1000_0000
)

// fixTophash adjusts the hash so that it's never the marker for empty or
// tombstone
func fixTophash(hash uint8) tophash {
	// For current values of empty and tombstone the lower 7 bits are all zeros
	// and both "empty" and "tombstone" are the only two possible values with
	// that property.
	var add uint8
	if (hash & 0b0111_1111) == 0 {
		add = 1
	}
	return hash + add
}

func isMarkerTophash(hash tophash) bool {
	return hash&0b0111_1111 == 0
}

// Number of control bytes inspected at once when hunting for a free slot.
const groupSize = 8

const (
	lsb    = math.MaxUint64 / 255
	topbit = lsb * 0b1000_0000
)

type matchiter struct {
	hashMatches uint64
}

func (m *matchiter) HasCurrent() bool {
	return m.hashMatches != 0
}

// Current is the lowest matching byte.
func (m *matchiter) Current() uint8 {
	bit := bits.TrailingZeros64(m.hashMatches)
	return uint8(bit / 8)
}

func (m *matchiter) Advance() {
	// unset the lowest set bit
	m.hashMatches = m.hashMatches & (m.hashMatches - 1)
}

// Last is the highest matching byte. The free-slot scan runs backwards so it
// walks matches from the top.
func (m *matchiter) Last() uint8 {
	bit := 63 - bits.LeadingZeros64(m.hashMatches)
	return uint8(bit / 8)
}

func (m *matchiter) Retreat() {
	bit := 63 - bits.LeadingZeros64(m.hashMatches)
	m.hashMatches &^= 1 << bit
}

func (m *matchiter) Count() int {
	return bits.OnesCount64(m.hashMatches)
}

func findZeros64(v uint64) uint64 {
	const c1 = lsb * 0b0111_1111
	return ^((v&c1 + c1) | v) & topbit
}

func findPresentTophash64(v uint64) uint64 {
	const c1 = lsb * 0b0111_1111
	// with the current values of tophashEmpty and tophashTombstone
	// the '(... + c1)' will only set the top bit to 1 if the
	// hash is neither of those special values
	return ((v & c1) + c1) & topbit
}

// loadGroup reads ctrls[0:groupSize]. The caller guarantees the length.
func loadGroup(ctrls []tophash) uint64 {
	return binary.LittleEndian.Uint64(ctrls[:groupSize])
}

// freeSlots matches the bytes of ctrls that are empty or tombstones. Windows
// shorter than a group, at the very start of the table, are done one byte at
// a time.
func freeSlots(ctrls []tophash) matchiter {
	if len(ctrls) == groupSize {
		return matchiter{hashMatches: ^findPresentTophash64(loadGroup(ctrls)) & topbit}
	}
	var mask uint64
	for i, c := range ctrls {
		if isMarkerTophash(c) {
			mask |= 0b1000_0000 << (8 * i)
		}
	}
	return matchiter{hashMatches: mask}
}

// countCtrls tallies used slots and tombstones.
func countCtrls(ctrls []tophash) (used, tombs int) {
	const tombies = lsb * uint64(tophashTombstone)

	i := 0
	for ; i+groupSize <= len(ctrls); i += groupSize {
		v := loadGroup(ctrls[i:])
		present := matchiter{hashMatches: findPresentTophash64(v)}
		tombstones := matchiter{hashMatches: findZeros64(v ^ tombies)}
		used += present.Count()
		tombs += tombstones.Count()
	}
	for ; i < len(ctrls); i++ {
		switch c := ctrls[i]; {
		case c == tophashTombstone:
			tombs++
		case !isMarkerTophash(c):
			used++
		}
	}
	return used, tombs
}
