package middleware

import (
	"strings"

	"github.com/genscoutai/genscout-backend/internal/models"
	jwtPkg "github.com/genscoutai/genscout-backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID    = "userID"
	LocalUserEmail = "userEmail"
)

// AuthMiddleware auth servisinin verdiği bearer token'ı doğrular
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)

		return c.Next()
	}
}

// UserID AuthMiddleware'den geçmiş isteklerde kullanıcı id'si
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(LocalUserID).(string)
	return userID, ok && userID != ""
}

func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalUserEmail).(string)
	return email
}
