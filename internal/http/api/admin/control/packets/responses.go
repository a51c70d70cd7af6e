package packets

// RESPONSES FOR /api/admin/datasets/*

type ReloadResponse struct {
	Version    string `json:"version"`
	LoadedAt   string `json:"loaded_at"`
	Facilities int    `json:"facilities"`
	Wards      int    `json:"wards"`
	Geocoded   int    `json:"geocoded"`
}
