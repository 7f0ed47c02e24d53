package property

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Amenity is a selectable property feature.
type Amenity struct {
	ID    string
	Label string
}

// Amenities is the catalog of selectable amenities, in display order.
var Amenities = []Amenity{
	{ID: "wifi", Label: "WiFi"},
	{ID: "parking", Label: "Parking"},
	{ID: "kitchen", Label: "Kitchen"},
	{ID: "ac", Label: "Air Conditioning"},
	{ID: "heating", Label: "Heating"},
	{ID: "tv", Label: "TV"},
	{ID: "washer", Label: "Washer"},
	{ID: "dryer", Label: "Dryer"},
	{ID: "pool", Label: "Pool"},
}

// LookupAmenity returns the catalog entry for id.
func LookupAmenity(id string) (Amenity, bool) {
	for _, a := range Amenities {
		if a.ID == id {
			return a, true
		}
	}
	return Amenity{}, false
}

// AmenitySet is an unordered set of amenity ids.
type AmenitySet map[string]struct{}

// NewAmenitySet builds a set from catalog ids.
func NewAmenitySet(ids ...string) (AmenitySet, error) {
	s := AmenitySet{}
	for _, id := range ids {
		if err := s.Add(id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts id. Adding a present id is a no-op.
func (s AmenitySet) Add(id string) error {
	if _, ok := LookupAmenity(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAmenity, id)
	}
	s[id] = struct{}{}
	return nil
}

// Toggle adds id when absent and removes it when present. It reports
// whether id is selected afterwards.
func (s AmenitySet) Toggle(id string) (bool, error) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false, nil
	}
	if err := s.Add(id); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether id is selected.
func (s AmenitySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids sorted for stable output.
func (s AmenitySet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (s AmenitySet) Clone() AmenitySet {
	out := make(AmenitySet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s AmenitySet) Equal(other AmenitySet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted array.
func (s AmenitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of ids, dropping duplicates.
func (s *AmenitySet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set, err := NewAmenitySet(ids...)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
