package middleware

import (
	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT", "code": apperrors.CodeValidation})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT", "code": apperrors.CodeUnauthorized})
}

// AdminRequired must run after Protected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired JWT",
				"code":  apperrors.CodeUnauthorized,
			})
		}
		claims, _ := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
				"code":  apperrors.CodeUnauthorized,
			})
		}
		return c.Next()
	}
}
