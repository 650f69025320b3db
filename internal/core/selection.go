package core

import (
	"slices"

	"github.com/samber/lo"
)

// Selection tracks the set of selected record ids. Select-all is scoped to
// the ids of the page currently on screen, never the whole view.
// Selection is not safe for concurrent use; List serializes access.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll clears the selection when every id of the current page is
// already selected; otherwise the selection becomes exactly pageIDs.
func (s *Selection) ToggleAll(pageIDs []string) {
	if s.AllSelected(pageIDs) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		s.ids[id] = struct{}{}
	}
}

// AllSelected reports whether every id in pageIDs is selected.
// An empty page counts as fully selected.
func (s *Selection) AllSelected(pageIDs []string) bool {
	return lo.EveryBy(pageIDs, s.IsSelected)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	ids := lo.Keys(s.ids)
	slices.Sort(ids)
	return ids
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.ids)
}
