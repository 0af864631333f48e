// Package graph indexes book sections and checks that a book is playable.
package graph

import "github.com/tatianab/gamebook/internal/models"

// Index maps normalised section ids to sections.
type Index struct {
	byID map[string]models.Section
}

// NewIndex indexes sections by id. Sections with an invalid id are skipped and a
// later section with a duplicate id replaces the earlier one.
func NewIndex(sections []models.Section) Index {
	byID := make(map[string]models.Section, len(sections))
	for _, s := range sections {
		if id, ok := s.ID.ID(); ok {
			byID[id] = s
		}
	}
	return Index{byID: byID}
}

// Lookup returns the section with the given id.
func (x Index) Lookup(id string) (models.Section, bool) {
	s, ok := x.byID[id]
	return s, ok
}

func (x Index) Has(id string) bool {
	_, ok := x.byID[id]
	return ok
}

func (x Index) Len() int { return len(x.byID) }
