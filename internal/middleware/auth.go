package middleware

import (
	"strings"

	"filevault/internal/utils"

	"github.com/gofiber/fiber/v2"
	pkgConfig "github.com/kerimovok/go-pkg-utils/config"
)

// AdminAuth guards admin routes. A missing or malformed Authorization
// header is 401; a token that fails verification (bad signature,
// expired) is 403. There is no server-side session: logout is a
// client-side token discard.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Missing or invalid token",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Missing or invalid token",
			})
		}

		claims, err := utils.ParseAdminToken(parts[1], pkgConfig.GetEnv("ADMIN_JWT_SECRET"))
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		c.Locals("adminUser", claims.Username)
		return c.Next()
	}
}
