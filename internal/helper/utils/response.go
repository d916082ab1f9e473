package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ResponseError serializes any error into the uniform error envelope.
// Raw internal errors are logged and reported as a generic 500 so they
// never leak to the client.
func ResponseError(ctx *fiber.Ctx, err error) error {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		log.Printf("unexpected error: %v", err)
		apiErr = Internal("Something went wrong")
	}
	return ctx.Status(apiErr.StatusCode).JSON(fiber.Map{
		"statusCode": apiErr.StatusCode,
		"success":    false,
		"message":    apiErr.Message,
		"errors":     apiErr.Errors,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"success":    true,
		"data":       data,
		"message":    message,
	})
}
