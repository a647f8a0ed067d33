package hashmap

// Option configures a Map at construction.
type Option[K comparable, V any] func(*Map[K, V])

// WithHasher makes the map hash keys with h instead of hash/maphash. See the
// hashers package for ready-made ones.
//
// The hasher is carried over by Clone and CopyFrom.
func WithHasher[K comparable, V any](h Hasher[K]) Option[K, V] {
	return func(m *Map[K, V]) {
		m.hasher = h
	}
}
