package model

import (
	"strings"
	"time"
)

// Snapshot is an immutable view of the three datasets. Nothing downstream
// of the loader modifies it; reloads build a new one.
type Snapshot struct {
	Facilities []Facility
	Settings   Settings
	Clinics    ClinicSchedule
	Version    string
	LoadedAt   time.Time
}

// GeocodedCount counts facilities that can be placed on the map.
func (s *Snapshot) GeocodedCount() int {
	n := 0
	for _, f := range s.Facilities {
		if _, ok := f.Coordinates(); ok {
			n++
		}
	}
	return n
}

// Selection is the user's current filter input.
type Selection struct {
	Query string `json:"q" form:"q"`
	Ward  string `json:"ward" form:"ward"`
	Day   string `json:"day" form:"day"`
}

func (s Selection) Normalize() Selection {
	return Selection{
		Query: strings.TrimSpace(s.Query),
		Ward:  strings.TrimSpace(s.Ward),
		Day:   strings.TrimSpace(s.Day),
	}
}

func (s Selection) IsEmpty() bool {
	n := s.Normalize()
	return n.Query == "" && n.Ward == "" && n.Day == ""
}
