package middleware

import (
	"github.com/zyntratech-upendra/placements/src/core/config"
	"github.com/zyntratech-upendra/placements/src/core/helpers"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected middleware for validating JWT tokens
func Protected() fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set in the environment variables") // Panic to prevent startup
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			// Extract user claims and attach user_id and role to the context
			user := c.Locals("user").(*jwt.Token)
			claims := user.Claims.(jwt.MapClaims)
			userID, ok := claims["sub"].(string)
			if !ok || userID == "" {
				return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
			}
			c.Locals("user_id", userID)
			if role, ok := claims["role"].(string); ok {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})
}

// RequireRoles gates a route to the given roles. Must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return helpers.HandleError(c, fiber.StatusForbidden, "Role not authorized for this resource", nil)
	}
}

// jwtError handles JWT-related errors
func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or malformed JWT", err)
	}
	return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", err)
}
