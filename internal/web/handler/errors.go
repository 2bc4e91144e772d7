package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// Error is an API failure rendered as {"error": Message} with status Code.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation is a request that fails its schema.
func Validation(msg string) *Error {
	return &Error{Code: fiber.StatusBadRequest, Message: msg}
}

// InvalidInput is a well formed request whose content can not be used.
func InvalidInput(msg string) *Error {
	return &Error{Code: fiber.StatusBadRequest, Message: msg}
}

// Unauthenticated is a missing or rejected credential.
func Unauthenticated(msg string) *Error {
	return &Error{Code: fiber.StatusUnauthorized, Message: msg}
}

// NotFound is a reference to a record that does not exist.
func NotFound(msg string) *Error {
	return &Error{Code: fiber.StatusNotFound, Message: msg}
}

// TooLarge is an upload over the size cap.
func TooLarge(msg string) *Error {
	return &Error{Code: fiber.StatusRequestEntityTooLarge, Message: msg}
}

// Upstream is a failure of the database or file store. The cause is part of the message.
func Upstream(msg string, err error) *Error {
	return &Error{Code: fiber.StatusInternalServerError, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

// ErrorHandler renders every error returned by a handler or middleware as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		apiErr   *Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &apiErr):
		if apiErr.Code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(apiErr.Code).JSON(fiber.Map{"error": apiErr.Message})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
