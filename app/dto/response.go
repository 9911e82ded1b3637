package dto

// SignupResponse is returned on successful registration. Warning carries a
// non-fatal delivery failure; the account exists either way.
type SignupResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// SigninResponse acknowledges valid credentials. No session or token is
// issued at this point.
type SigninResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
