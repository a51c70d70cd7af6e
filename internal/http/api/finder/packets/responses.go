package packets

// RESPONSES FOR /api/finder/*

import (
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

type SearchResponse struct {
	Version string `json:"version"`
	Cached  bool   `json:"cached"`
	*render.Result
}

type WardsResponse struct {
	Wards []string `json:"wards"`
	Days  []string `json:"days"`
}

type StatusResponse struct {
	Loaded     bool   `json:"loaded"`
	Version    string `json:"version,omitempty"`
	LoadedAt   string `json:"loaded_at,omitempty"`
	Facilities int    `json:"facilities"`
	Geocoded   int    `json:"geocoded"`
	Wards      int    `json:"wards"`
	LastError  string `json:"last_error,omitempty"`
}

// SocketMessage is written to the websocket after every input.
type SocketMessage struct {
	Type   string         `json:"type"`
	Result *render.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// PageData feeds index.html.
type PageData struct {
	Wards   []string
	Days    []string
	Initial *render.Result
	Version string
}

// ErrorPageData feeds load_error.html.
type ErrorPageData struct {
	Message string
}
