package utils

// ErrorResponse is a struct for error response. Code carries a
// machine-readable conflict reason for booking rejections so the client can
// react (e.g. refresh the slot list on "slot_taken").
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
