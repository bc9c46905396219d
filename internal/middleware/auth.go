// Package middleware provides authentication, logging and rate limiting
// middleware for the application.
package middleware

import (
	"strings"

	"voxpop/internal/auth"
	"voxpop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired enforces bearer token authentication for protected routes.
// Missing or invalid credentials are rejected before any handler logic
// runs; on success the verified user ID is stored in c.Locals("userID").
func AuthRequired(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, models.NewUnauthenticatedError())
		}

		// Expect "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, models.NewUnauthenticatedError())
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals("userID", userID)

		return c.Next()
	}
}
