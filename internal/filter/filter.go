package filter

import (
	"sort"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/search"
)

// Search tuning for the free-text box. Name dominates, then directions,
// address and ward.
var (
	SearchOptions = search.Options{
		Threshold:          0.35,
		MinMatchCharLength: 2,
	}
	SearchFields = []search.Field[model.Facility]{
		{Name: "name", Weight: 0.5, Value: func(f model.Facility) string { return f.Name }},
		{Name: "address", Weight: 0.3, Value: func(f model.Facility) string { return f.Address }},
		{Name: "ward", Weight: 0.2, Value: func(f model.Facility) string { return f.Ward }},
		{Name: "directions", Weight: 0.4, Value: func(f model.Facility) string { return f.Directions }},
	}
)

// Apply returns the facilities matching every active part of sel.
// Ward and day filters keep dataset order; a query reorders best match first.
func Apply(snap *model.Snapshot, sel model.Selection) []model.Facility {
	sel = sel.Normalize()

	rows := make([]model.Facility, 0, len(snap.Facilities))
	for _, f := range snap.Facilities {
		if !MatchesWard(f, sel.Ward) {
			continue
		}
		if !MatchesDay(snap, f, sel.Day) {
			continue
		}
		rows = append(rows, f)
	}

	if sel.Query == "" {
		return rows
	}
	return search.NewIndex(rows, SearchOptions, SearchFields...).Items(sel.Query)
}

// MatchesWard compares the trimmed facility ward with ward, case-sensitively.
// An empty ward matches everything.
func MatchesWard(f model.Facility, ward string) bool {
	return ward == "" || f.WardKey() == ward
}

// MatchesDay is true when day is empty, when the global opening hours list
// day, or when the facility's ward runs a clinic that day. A globally open
// day therefore lets every facility through.
func MatchesDay(snap *model.Snapshot, f model.Facility, day string) bool {
	if day == "" {
		return true
	}
	if snap.Settings.OpenOn(day) {
		return true
	}
	return snap.Clinics.For(f.Ward).Offers(day)
}

// Wards lists the distinct non-empty trimmed wards, sorted.
func Wards(facilities []model.Facility) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, f := range facilities {
		w := f.WardKey()
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
