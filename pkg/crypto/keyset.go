package crypto

// KeySet holds public keys indexed by the hash code of their point, so
// membership is decided by point equality regardless of compression.
type KeySet struct {
	buckets map[uint64][]*Key
	size    int
}

// NewKeySet returns a set holding keys. Nil keys and repeated points are
// dropped.
func NewKeySet(keys ...*Key) *KeySet {
	s := &KeySet{buckets: make(map[uint64][]*Key, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key and reports whether its point was new.
func (s *KeySet) Add(key *Key) bool {
	if key == nil || s.Contains(key) {
		return false
	}
	h := key.pub.Hash()
	s.buckets[h] = append(s.buckets[h], key)
	s.size++
	return true
}

// Contains reports whether a key with the same point is in the set.
func (s *KeySet) Contains(key *Key) bool {
	if key == nil {
		return false
	}
	for _, k := range s.buckets[key.pub.Hash()] {
		if k.pub.Equal(key.pub) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct points.
func (s *KeySet) Len() int {
	return s.size
}
