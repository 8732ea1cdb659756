package middleware

import (
	"github.com/Fariz-ai/dev-events/src/core/config"
	"github.com/Fariz-ai/dev-events/src/core/helpers"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected guards the organizer-only routes (event writes, /auth/me).
// It verifies the bearer token and exposes the account id to the handlers
// as the "user_id" local.
func Protected() fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		// Refuse to register a guard that would accept unsigned tokens.
		panic("JWT_SECRET is not set in the environment variables")
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		ErrorHandler: tokenError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token := c.Locals("user").(*jwt.Token)
			claims := token.Claims.(jwt.MapClaims)
			accountID, ok := claims["sub"].(string)
			if !ok || accountID == "" {
				return helpers.HandleError(c, fiber.StatusUnauthorized, "Token carries no account ID", nil)
			}
			c.Locals("user_id", accountID)
			return c.Next()
		},
	})
}

// tokenError maps token failures onto the response taxonomy: a request
// without a parseable token is a 400, a bad one is a 401.
func tokenError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or malformed token", err)
	}
	return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired token", err)
}
