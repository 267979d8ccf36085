package membership

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Set is the membership set for a run: the ids of items whose artwork
// matched a reference. Absence of an id means "did not match" or "was not
// evaluated"; the two are indistinguishable here.
type Set struct {
	ids map[string]struct{}
}

// NewSet returns an empty membership set.
func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// FromIDs builds a set containing the given ids.
func FromIDs(ids ...string) *Set {
	set := NewSet()
	for _, id := range ids {
		set.Record(id)
	}
	return set
}

// Record adds an id to the set. Recording the same id twice is a no-op.
func (s *Set) Record(id string) {
	s.ids[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the member ids sorted lexically. Both sides of a
// reconciliation sort the same way, which is what makes sequence equality a
// meaningful membership comparison.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EncodeDocument writes the set as the published wire format: a flat JSON
// object mapping each member id to true.
func (s *Set) EncodeDocument(w io.Writer) error {
	doc := make(map[string]bool, len(s.ids))
	for id := range s.ids {
		doc[id] = true
	}
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode membership document: %w", err)
	}
	return nil
}

// DecodeDocument reads the published wire format back into a set. Ids mapped
// to false are ignored rather than treated as members.
func DecodeDocument(r io.Reader) (*Set, error) {
	var doc map[string]bool
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode membership document: %w", err)
	}
	set := NewSet()
	for id, member := range doc {
		if member {
			set.Record(id)
		}
	}
	return set, nil
}
