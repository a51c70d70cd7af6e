package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOfAndPad(t *testing.T) {
	b, ok := BoundsOf([]LatLng{{6.8, 3.7}, {6.9, 3.6}})
	require.True(t, ok)
	assert.Equal(t, LatLng{6.8, 3.6}, b.SouthWest)
	assert.Equal(t, LatLng{6.9, 3.7}, b.NorthEast)

	p := b.Pad(0.2)
	assert.InDelta(t, 6.78, p.SouthWest.Lat, 1e-9)
	assert.InDelta(t, 3.58, p.SouthWest.Lng, 1e-9)
	assert.InDelta(t, 6.92, p.NorthEast.Lat, 1e-9)
	assert.InDelta(t, 3.72, p.NorthEast.Lng, 1e-9)
	assert.InDelta(t, 6.85, p.Center().Lat, 1e-9)
}

func TestBoundsOfSinglePoint(t *testing.T) {
	b, ok := BoundsOf([]LatLng{{6.85, 3.65}})
	require.True(t, ok)
	assert.Equal(t, b, b.Pad(0.2))
}

func TestBoundsOfEmpty(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)
}

func TestSelectionNormalize(t *testing.T) {
	s := Selection{Query: "  ogi ", Ward: " Ogijo", Day: "Mon "}.Normalize()
	assert.Equal(t, Selection{Query: "ogi", Ward: "Ogijo", Day: "Mon"}, s)
	assert.True(t, Selection{Query: "  "}.IsEmpty())
}
