package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	Name    string
	Address string
}

var placeFields = []Field[place]{
	{Name: "name", Weight: 0.5, Value: func(p place) string { return p.Name }},
	{Name: "address", Weight: 0.3, Value: func(p place) string { return p.Address }},
}

var strictOpts = Options{Threshold: 0.35, MinMatchCharLength: 2}

func names(results []Result[place]) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Item.Name)
	}
	return out
}

func TestSearchExactSubstring(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "Ogijo PHC", Address: "Ogijo Road"},
		{Name: "Sabo Health Centre", Address: "Akarigbo Street"},
		{Name: "Makun PHC", Address: "Makun Road"},
	}, strictOpts, placeFields...)

	assert.Equal(t, []string{"Sabo Health Centre"}, names(ix.Search("Sabo")))
}

func TestSearchToleratesMisspelling(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "Ogijo PHC"},
		{Name: "Makun PHC"},
	}, strictOpts, placeFields...)

	assert.Equal(t, []string{"Makun PHC"}, names(ix.Search("Makn")))
}

func TestSearchRejectsUnrelated(t *testing.T) {
	ix := NewIndex([]place{{Name: "Ogijo PHC"}, {Name: "Makun PHC"}}, strictOpts, placeFields...)
	assert.Empty(t, ix.Search("zzzz"))
	assert.Empty(t, ix.Search(""))
}

func TestSearchMinMatchLength(t *testing.T) {
	ix := NewIndex([]place{{Name: "Ogijo PHC"}}, strictOpts, placeFields...)
	assert.Empty(t, ix.Search("o"))
}

func TestSearchIgnoresCase(t *testing.T) {
	ix := NewIndex([]place{{Name: "Ogijo PHC"}}, strictOpts, placeFields...)
	require.Len(t, ix.Search("OGIJO"), 1)
}

func TestSearchIgnoresLocation(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "A very long facility name that finally mentions Ogijo"},
	}, strictOpts, placeFields...)
	require.Len(t, ix.Search("Ogijo"), 1)
}

func TestSearchWeightsNameAboveAddress(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "Alpha Clinic", Address: "Oke Street"},
		{Name: "Oke Clinic", Address: "Main Road"},
	}, strictOpts, placeFields...)

	results := ix.Search("Oke")
	assert.Equal(t, []string{"Oke Clinic", "Alpha Clinic"}, names(results))
	assert.Equal(t, []string{"name"}, results[0].Matched)
	assert.Equal(t, []string{"address"}, results[1].Matched)
}

func TestSearchExactFieldBeatsSubstring(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "Sabo Health Centre"},
		{Name: "Sabo"},
	}, strictOpts, placeFields...)

	assert.Equal(t, []string{"Sabo", "Sabo Health Centre"}, names(ix.Search("sabo")))
}

func TestSearchTiesKeepOrder(t *testing.T) {
	ix := NewIndex([]place{
		{Name: "Ward PHC", Address: "first"},
		{Name: "Ward PHC", Address: "second"},
		{Name: "Ward PHC", Address: "third"},
	}, strictOpts, placeFields...)

	results := ix.Search("ward")
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
}

func TestSearchSkipsBlankFields(t *testing.T) {
	ix := NewIndex([]place{{Name: "", Address: "  "}}, strictOpts, placeFields...)
	assert.Empty(t, ix.Search("  "))
}

func TestSubstringDistance(t *testing.T) {
	tests := []struct {
		pattern, text string
		want          int
	}{
		{"ogijo", "ogijo phc", 0},
		{"makn", "makun phc", 1},
		{"sabo", "sbo", 1},
		{"xyz", "ogijo", 3},
	}
	for _, tt := range tests {
		got := substringDistance([]rune(tt.pattern), []rune(tt.text), 10)
		assert.Equal(t, tt.want, got, "%s in %s", tt.pattern, tt.text)
	}
	assert.Equal(t, 2, substringDistance([]rune("xyz"), []rune("ogijo"), 1))
}

func TestItems(t *testing.T) {
	ix := NewIndex([]place{{Name: "Ogijo PHC"}, {Name: "Makun PHC"}}, strictOpts, placeFields...)
	assert.Equal(t, []place{{Name: "Makun PHC"}}, ix.Items("makun"))
}
