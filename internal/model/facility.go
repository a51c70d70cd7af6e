package model

import (
	"fmt"
	"strings"
)

const (
	UnknownFacility = "Unknown facility"
	Placeholder     = "—"
)

// Facility is one primary health care centre from phcs.json.
// Empty strings and nil coordinates mean the field was absent.
type Facility struct {
	Name       string   `json:"name,omitempty"`
	Ward       string   `json:"ward,omitempty"`
	Address    string   `json:"address,omitempty"`
	Directions string   `json:"directions,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

func (f Facility) DisplayName() string {
	return orDefault(f.Name, UnknownFacility)
}

func (f Facility) DisplayWard() string {
	return orDefault(f.Ward, Placeholder)
}

func (f Facility) DisplayAddress() string {
	return orDefault(f.Address, Placeholder)
}

func (f Facility) DisplayDirections() string {
	return orDefault(f.Directions, Placeholder)
}

// WardKey is the trimmed ward used by the ward filter.
func (f Facility) WardKey() string {
	return strings.TrimSpace(f.Ward)
}

// Coordinates reports the facility position. A zero latitude or longitude
// counts as missing, the same as an absent one.
func (f Facility) Coordinates() (LatLng, bool) {
	if f.Lat == nil || f.Lng == nil || *f.Lat == 0 || *f.Lng == 0 {
		return LatLng{}, false
	}
	return LatLng{Lat: *f.Lat, Lng: *f.Lng}, true
}

// PhoneLink is the tel: link or "" when there is no phone.
func (f Facility) PhoneLink() string {
	if f.Phone == "" {
		return ""
	}
	return "tel:" + f.Phone
}

// MapsLink is the external map query link or "" without coordinates.
func (f Facility) MapsLink() string {
	pos, ok := f.Coordinates()
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", formatCoord(pos.Lat), formatCoord(pos.Lng))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
