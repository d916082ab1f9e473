package utils

import "github.com/gofiber/fiber/v2"

// ApiError is the domain error carried from services up to the HTTP
// boundary. It is the only error type translated into a client-facing
// status; anything else serializes as a 500.
type ApiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(status int, msg string, errs ...string) *ApiError {
	if errs == nil {
		errs = []string{}
	}
	return &ApiError{StatusCode: status, Message: msg, Errors: errs}
}

func BadRequest(msg string, errs ...string) *ApiError {
	return NewApiError(fiber.StatusBadRequest, msg, errs...)
}

func Unauthorized(msg string, errs ...string) *ApiError {
	return NewApiError(fiber.StatusUnauthorized, msg, errs...)
}

func NotFound(msg string, errs ...string) *ApiError {
	return NewApiError(fiber.StatusNotFound, msg, errs...)
}

func Conflict(msg string, errs ...string) *ApiError {
	return NewApiError(fiber.StatusConflict, msg, errs...)
}

func Internal(msg string, errs ...string) *ApiError {
	return NewApiError(fiber.StatusInternalServerError, msg, errs...)
}
