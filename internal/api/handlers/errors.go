package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
)

// statusFor maps the error taxonomy to HTTP status codes. NotFound and
// Forbidden stay distinct: they imply different client remediation.
func statusFor(err error) int {
	switch chaterr.KindOf(err) {
	case chaterr.KindInvalidArgument:
		return fiber.StatusBadRequest
	case chaterr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case chaterr.KindForbidden:
		return fiber.StatusForbidden
	case chaterr.KindNotFound:
		return fiber.StatusNotFound
	case chaterr.KindProvider:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a classified error as a JSON response
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
