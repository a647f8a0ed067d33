package hashmap

import "errors"

var (
	// ErrKeyNotFound is returned by At for a key that is not in the map.
	ErrKeyNotFound = errors.New("hashmap: key not found")

	// ErrCapacityExhausted is reported when a table larger than the biggest
	// tabulated prime (or larger than an int can index) would be needed.
	// Reserve returns it. Growth inside Insert and Index panics with it, in
	// the same way make panics for an impossible length.
	ErrCapacityExhausted = errors.New("hashmap: capacity exceeds the largest supported table")
)
