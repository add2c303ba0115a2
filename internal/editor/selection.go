package editor

import "slices"

// Selection is the set of checked page ids. Iteration follows the order in
// which pages were selected.
type Selection struct {
	order []string
	set   map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{set: map[string]struct{}{}}
}

func (s *Selection) Add(id string) {
	if _, ok := s.set[id]; ok {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) Remove(id string) {
	if _, ok := s.set[id]; !ok {
		return
	}
	delete(s.set, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}

func (s *Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

func (s *Selection) IDs() []string {
	return slices.Clone(s.order)
}

func (s *Selection) Clear() {
	s.order = nil
	clear(s.set)
}
