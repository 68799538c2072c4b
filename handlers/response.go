package handlers

import (
	"errors"

	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respond writes the success envelope; key may be empty when there is no payload.
func respond(c *fiber.Ctx, code int, message, key string, payload interface{}) error {
	body := fiber.Map{
		"message": message,
		"status":  code,
		"success": true,
	}
	if key != "" {
		body[key] = payload
	}
	return c.Status(code).JSON(body)
}

// ErrorHandler is the single place errors returned by handlers become responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong."

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		logger.Log.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()), zap.String("method", c.Method()))
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"status":  code,
		"success": false,
	})
}

func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

// serviceError keeps rule violations reported by a service and replaces
// anything else with the handler's own message.
func serviceError(err error, message string) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return e
	}
	logger.Log.Error(message, zap.Error(err))
	return badRequest(message)
}

func currentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return uuid.Nil, "", badRequest("Please login to continue.")
	}
	return userID, role, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("Cannot parse JSON")
	}
	return nil
}
