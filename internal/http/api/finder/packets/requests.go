package packets

// REQUESTS FOR /api/finder/*

// SearchRequest is bound from the query string of /api/finder/search.
type SearchRequest struct {
	Query string `form:"q"`
	Ward  string `form:"ward"`
	Day   string `form:"day"`
}

// InputMessage is one control change sent over the finder websocket.
type InputMessage struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
