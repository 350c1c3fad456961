package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
