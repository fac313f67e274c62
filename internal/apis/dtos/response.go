package dtos

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Code: code, Error: message}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
