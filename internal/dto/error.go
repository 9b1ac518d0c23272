package dto

import "time"

type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors"`
}

func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Status: status, Message: message, Timestamp: time.Now().UTC()}
}
