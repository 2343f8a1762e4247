package poll

import "slices"

// RequiredSet is the caller-held selection of must-attend response ids.
// The zero value is an empty set. It is view state and never persisted.
type RequiredSet struct {
	ids map[string]struct{}
}

// NewRequiredSet builds a set from ids, ignoring duplicates and blanks.
func NewRequiredSet(ids ...string) RequiredSet {
	var s RequiredSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *RequiredSet) Add(id string) {
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

func (s *RequiredSet) Remove(id string) {
	delete(s.ids, id)
}

// Toggle adds id if absent and removes it if present.
func (s *RequiredSet) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

func (s RequiredSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s RequiredSet) Len() int {
	return len(s.ids)
}

// IDs returns the members sorted, so callers get a stable order.
func (s RequiredSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
