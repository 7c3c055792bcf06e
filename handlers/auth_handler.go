package handlers

import (
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	invalid := apperrors.Unauthorized("Invalid email or password")

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return respondError(c, invalid)
		}
		return respondError(c, err)
	}
	if !user.IsActive {
		return respondError(c, invalid)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logging.Logger.Info("Failed login attempt", zap.String("email", req.Email))
		return respondError(c, invalid)
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return respondError(c, apperrors.Internal(err))
	}

	return c.JSON(fiber.Map{"token": t})
}
