package hashmap

import "testing"

func TestFixTophash(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := fixTophash(uint8(i))
		if isMarkerTophash(b) {
			t.Fatalf("fixTophash(%v) = %v is a marker", i, b)
		}
		if !isMarkerTophash(uint8(i)) && b != uint8(i) {
			t.Fatalf("fixTophash(%v) = %v changed a valid hash", i, b)
		}
	}
}

func TestFreeSlots(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := uint8(i)

		var ctrls [groupSize]tophash
		for j := range ctrls {
			ctrls[j] = b
		}

		free := freeSlots(ctrls[:])
		if isMarkerTophash(b) {
			if free.Count() != groupSize {
				t.Fatalf("got %v free slots for %v, want all", free.Count(), b)
			}
		} else if free.HasCurrent() {
			t.Fatalf("got free slots for %v", b)
		}
	}
}

func TestFreeSlotsOrder(t *testing.T) {
	for _, n := range []int{1, 3, 7, groupSize} {
		ctrls := make([]tophash, n)
		for j := range ctrls {
			ctrls[j] = 0x11
		}
		ctrls[0] = tophashEmpty
		ctrls[n-1] = tophashTombstone

		free := freeSlots(ctrls)
		var got []uint8
		for ; free.HasCurrent(); free.Retreat() {
			got = append(got, free.Last())
		}
		want := []uint8{uint8(n - 1), 0}
		if n == 1 {
			want = want[:1]
		}
		if len(got) != len(want) {
			t.Fatalf("n=%v: got %v want %v", n, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("n=%v: got %v want %v", n, got, want)
			}
		}
	}
}

func TestMatchiterForward(t *testing.T) {
	it := matchiter{hashMatches: 0x80_00_00_80_00_00_80_00}
	var got []uint8
	for ; it.HasCurrent(); it.Advance() {
		got = append(got, it.Current())
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 4 || got[2] != 7 {
		t.Fatalf("got %v want [1 4 7]", got)
	}
}

func TestCountCtrls(t *testing.T) {
	// not a multiple of the group size, so the tail is counted byte by byte
	ctrls := make([]tophash, 3*groupSize+5)
	var wantUsed, wantTombs int
	for i := range ctrls {
		switch i % 3 {
		case 0:
			ctrls[i] = fixTophash(uint8(i * 37))
			wantUsed++
		case 1:
			ctrls[i] = tophashTombstone
			wantTombs++
		}
	}
	used, tombs := countCtrls(ctrls)
	if used != wantUsed || tombs != wantTombs {
		t.Fatalf("got %v,%v want %v,%v", used, tombs, wantUsed, wantTombs)
	}
}
