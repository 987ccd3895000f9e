// Package apperr defines the error taxonomy every handler normalizes into:
// validation (400), auth (401/403), not-found (404), payment (402) and
// internal (500). The Fiber error handler maps anything else to 500 and
// scrubs the message in production.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "github.com/deputyJo/ironcart-backend/internal/log"
)

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error { return New(fiber.StatusBadRequest, message) }

func Unauthorized(message string) *Error { return New(fiber.StatusUnauthorized, message) }

func Forbidden(message string) *Error { return New(fiber.StatusForbidden, message) }

func NotFound(message string) *Error { return New(fiber.StatusNotFound, message) }

func PaymentRequired(message string) *Error { return New(fiber.StatusPaymentRequired, message) }

func Internal(message string, err error) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: message, Err: err}
}

const scrubbed = "Something went wrong. Please try again later."

// Handler is the central Fiber error handler. Every error is logged with
// request context before the response is written; 500-class messages are
// replaced in production so internals never reach the client.
func Handler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()

		var ae *Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = ae.Status
			message = ae.Message
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		}

		applog.Error(c, "request.error", err, map[string]any{"status": status})

		if status >= fiber.StatusInternalServerError && production {
			message = scrubbed
		}
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}
