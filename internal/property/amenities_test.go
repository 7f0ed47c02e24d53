package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmenitySet_ToggleTwiceRestores(t *testing.T) {
	t.Parallel()
	for _, a := range Amenities {
		s, err := NewAmenitySet("wifi", "pool")
		require.NoError(t, err)
		before := s.Clone()

		_, err = s.Toggle(a.ID)
		require.NoError(t, err)
		_, err = s.Toggle(a.ID)
		require.NoError(t, err)

		assert.True(t, before.Equal(s), "toggle %s twice", a.ID)
	}
}

func TestAmenitySet_Toggle(t *testing.T) {
	t.Parallel()
	s := AmenitySet{}

	on, err := s.Toggle("kitchen")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.Has("kitchen"))

	on, err = s.Toggle("kitchen")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, s)
}

func TestAmenitySet_UnknownID(t *testing.T) {
	t.Parallel()
	s := AmenitySet{}
	_, err := s.Toggle("helipad")
	assert.ErrorIs(t, err, ErrUnknownAmenity)
	assert.Empty(t, s)

	_, err = NewAmenitySet("wifi", "sauna")
	assert.ErrorIs(t, err, ErrUnknownAmenity)
}

func TestAmenitySet_JSON(t *testing.T) {
	t.Parallel()
	var s AmenitySet
	require.NoError(t, json.Unmarshal([]byte(`["tv","ac","tv"]`), &s))
	assert.Len(t, s, 2)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["ac","tv"]`, string(out))
}

func TestLookupAmenity(t *testing.T) {
	t.Parallel()
	a, ok := LookupAmenity("ac")
	require.True(t, ok)
	assert.Equal(t, "Air Conditioning", a.Label)

	_, ok = LookupAmenity("")
	assert.False(t, ok)
}
