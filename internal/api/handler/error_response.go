package handler

// ErrorResponse is the JSON envelope for every API error.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
