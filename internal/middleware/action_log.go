package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"vestisen/internal/database"
	"vestisen/internal/logger"
	"vestisen/internal/models"
)

// ActionLogger appends an audit row for every mutating request. GET requests
// are not logged. Insert failures are swallowed: auditing never fails the
// primary operation.
func ActionLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		method := c.Method()
		switch method {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodPatch:
		default:
			return err
		}

		status := c.Response().StatusCode()
		entry := models.ActionLog{
			HTTPMethod:     method,
			RequestURI:     c.Path(),
			QueryString:    string(c.Request().URI().QueryString()),
			ResponseStatus: status,
			Success:        status >= 200 && status < 300,
			ClientIP:       c.IP(),
			UserAgent:      c.Get("User-Agent"),
		}
		if err != nil {
			entry.ErrorMessage = err.Error()
		}

		if userID, ok := c.Locals("user_id").(uint); ok {
			entry.UserID = &userID
		}
		if email, ok := c.Locals("email").(string); ok {
			entry.Username = email
		}
		if role, ok := c.Locals("role").(string); ok {
			entry.UserRole = role
		}

		entry.ResourceType, entry.ResourceID = parseResource(c.Path())

		if dbErr := database.DB.Create(&entry).Error; dbErr != nil {
			logger.Log.Warn("action log insert failed", zap.Error(dbErr))
		}
		return err
	}
}

// parseResource derives the resource type and id from an API path, e.g.
// /api/annonces/123/buy -> ("annonce", 123).
func parseResource(path string) (string, *uint) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 0 && parts[0] == "api" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[0] == "admin" {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return "", nil
	}

	resource := strings.TrimSuffix(parts[0], "s")
	var id *uint
	for _, p := range parts[1:] {
		if n, err := strconv.ParseUint(p, 10, 32); err == nil {
			v := uint(n)
			id = &v
			break
		}
	}
	return resource, id
}
