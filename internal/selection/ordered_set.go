package selection

// orderedSet keeps paths in first-insertion order without duplicates.
type orderedSet struct {
	items   []string
	present map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{present: make(map[string]bool)}
}

// Add appends path unless it is already present.
func (s *orderedSet) Add(path string) bool {
	if s.present[path] {
		return false
	}
	s.present[path] = true
	s.items = append(s.items, path)
	return true
}

// RemoveFunc drops every present path for which fn returns true.
func (s *orderedSet) RemoveFunc(fn func(path string) bool) {
	kept := s.items[:0]
	for _, path := range s.items {
		if fn(path) {
			delete(s.present, path)
			continue
		}
		kept = append(kept, path)
	}
	s.items = kept
}

// Contains reports whether path is present.
func (s *orderedSet) Contains(path string) bool {
	return s.present[path]
}

// Len returns the number of present paths.
func (s *orderedSet) Len() int {
	return len(s.items)
}

// Values returns the present paths in order.
func (s *orderedSet) Values() []string {
	return append(make([]string, 0, len(s.items)), s.items...)
}
