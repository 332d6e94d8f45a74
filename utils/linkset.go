package utils

// LinkSet tracks listing links already seen during deduplication.
// A missing link is tracked as its own key, so every link-less row after the
// first counts as a duplicate.
type LinkSet struct {
	seen        map[string]struct{}
	seenMissing bool
}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{seen: make(map[string]struct{})}
}

// Add returns true if the link was newly added, false if already present.
func (s *LinkSet) Add(link *string) bool {
	if link == nil {
		if s.seenMissing {
			return false
		}
		s.seenMissing = true
		return true
	}
	if _, exists := s.seen[*link]; exists {
		return false
	}
	s.seen[*link] = struct{}{}
	return true
}

// Contains returns true if the link has already been added.
func (s *LinkSet) Contains(link *string) bool {
	if link == nil {
		return s.seenMissing
	}
	_, exists := s.seen[*link]
	return exists
}

// Unique returns the number of distinct non-missing links.
func (s *LinkSet) Unique() int {
	return len(s.seen)
}
