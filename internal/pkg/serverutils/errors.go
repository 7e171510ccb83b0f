package serverutils

import "github.com/gofiber/fiber/v2"

// ApiError is a service-layer error that carries the HTTP status it should be
// reported with. The error handler middleware translates it at the boundary.
type ApiError struct {
	Code    int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *ApiError {
	return &ApiError{Code: fiber.StatusNotFound, Message: message}
}

func NewValidationError(message string) *ApiError {
	return &ApiError{Code: fiber.StatusBadRequest, Message: message}
}

func NewUpstreamError(message string) *ApiError {
	return &ApiError{Code: fiber.StatusBadGateway, Message: message}
}

func NewPersistenceError(message string) *ApiError {
	return &ApiError{Code: fiber.StatusInternalServerError, Message: message}
}
