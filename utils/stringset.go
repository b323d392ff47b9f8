package utils

// StringSet tracks unique keys, e.g. normalised file names already scanned.
type StringSet struct {
	seen map[string]struct{}
}

// NewStringSet creates an empty StringSet.
func NewStringSet() *StringSet {
	return &StringSet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *StringSet) Add(key string) bool {
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Size returns the number of unique keys tracked.
func (s *StringSet) Size() int {
	return len(s.seen)
}
