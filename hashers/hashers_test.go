package hashers

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringHashersAgreeWithSeedZero(t *testing.T) {
	for _, s := range []string{"", "a", "hello world", "0123456789abcdef0123456789abcdef!"} {
		require.Equal(t, String(s), SeededString(0)(s), s)
		require.Equal(t, StringXXH3(s), SeededStringXXH3(0)(s), s)
		require.Equal(t, StringMurmur3(s), SeededStringMurmur3(0)(s), s)
	}
}

func TestSeedsChangeTheHash(t *testing.T) {
	const s = "some key"
	require.NotEqual(t, SeededString(1)(s), SeededString(2)(s))
	require.NotEqual(t, SeededStringXXH3(1)(s), SeededStringXXH3(2)(s))
	require.NotEqual(t, SeededStringMurmur3(1)(s), SeededStringMurmur3(2)(s))
}

func TestNoCollisionsOnSmallKeys(t *testing.T) {
	for name, h := range map[string]func(string) uint64{
		"xxhash":  String,
		"xxh3":    StringXXH3,
		"murmur3": StringMurmur3,
	} {
		t.Run(name, func(t *testing.T) {
			seen := make(map[uint64]string, 10_000)
			for i := 0; i < 10_000; i++ {
				k := strconv.Itoa(i)
				hash := h(k)
				other, dup := seen[hash]
				require.False(t, dup, "%q and %q collide", k, other)
				seen[hash] = k
			}
		})
	}
}

func TestInt(t *testing.T) {
	require.Equal(t, Int[int64](42), Int[uint64](42))
	require.Equal(t, Int[int8](-1), Int[int64](-1))
	require.NotEqual(t, Int(1), Int(2))

	// sequential keys spread over the top byte
	tops := make(map[uint64]struct{})
	for i := 0; i < 1000; i++ {
		tops[Int(i)>>56] = struct{}{}
	}
	require.Greater(t, len(tops), 200)
}

func TestFixedSizeKeys(t *testing.T) {
	var a, b [16]byte
	b[15] = 1
	require.NotEqual(t, Bytes16(a), Bytes16(b))

	var c [32]byte
	require.Equal(t, String(string(c[:])), Bytes32(c))
}

func TestIdentityAndModulo(t *testing.T) {
	require.Equal(t, uint64(77), Identity(77))
	require.Equal(t, uint64(255), Identity[uint8](255))

	mod4 := Modulo[int](4)
	for _, k := range []int{1, 5, 9, 13} {
		require.Equal(t, uint64(1), mod4(k))
	}
	require.Equal(t, uint64(3), mod4(7))
}
