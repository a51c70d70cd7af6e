package model

// Admin is the operator allowed to reload datasets.
type Admin struct {
	Username string `json:"username"`
}
