package model

import (
	"slices"
	"strings"
)

// Days is the fixed display order for opening hours and day selection.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Settings holds the values from settings.json that apply to every facility.
type Settings struct {
	OpeningHours map[string]string `json:"opening_hours_global"`
	Services     []string          `json:"services_global"`
}

// OpenOn is true when the global table has a non-empty entry for day.
func (s Settings) OpenOn(day string) bool {
	return s.OpeningHours[day] != ""
}

// HoursOn returns the hours text for day, or the placeholder.
func (s Settings) HoursOn(day string) string {
	return orDefault(s.OpeningHours[day], Placeholder)
}

// HoursLine renders "Mon: 8am-4pm | Tue: — | ..." in Days order.
func (s Settings) HoursLine() string {
	parts := make([]string, 0, len(Days))
	for _, d := range Days {
		parts = append(parts, d+": "+s.HoursOn(d))
	}
	return strings.Join(parts, " | ")
}

type WardClinics struct {
	Immunization []string `json:"immunization"`
	Antenatal    []string `json:"antenatal"`
}

// Offers reports whether an immunization or antenatal clinic runs on day.
func (w WardClinics) Offers(day string) bool {
	return slices.Contains(w.Immunization, day) || slices.Contains(w.Antenatal, day)
}

// Lines returns "Immunization: Tue · Thu" style lines, skipping empty lists.
func (w WardClinics) Lines() []string {
	var out []string
	if len(w.Immunization) > 0 {
		out = append(out, "Immunization: "+strings.Join(w.Immunization, " · "))
	}
	if len(w.Antenatal) > 0 {
		out = append(out, "Antenatal: "+strings.Join(w.Antenatal, " · "))
	}
	return out
}

// ClinicSchedule maps a ward name to its clinic days (clinics_by_ward.json).
type ClinicSchedule map[string]WardClinics

// For returns the clinics for ward. Unknown wards have no clinic days.
func (c ClinicSchedule) For(ward string) WardClinics {
	return c[ward]
}
