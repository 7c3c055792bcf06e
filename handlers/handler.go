package handlers

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/anjiri1684/referral_rewards/services"
	"github.com/anjiri1684/referral_rewards/utils"
	"github.com/anjiri1684/referral_rewards/websocket"
	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Deps struct {
	Courses    *services.CourseService
	Referrals  *services.ReferralService
	Rewards    *services.RewardCalculator
	Tiers      *services.TierCatalog
	Statements *services.StatementService
	Users      UserFinder
	Hub        *websocket.Hub

	JWTSecret     string
	CloudinaryURL string
	PhoneRegion   string
	Now           func() time.Time
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	courses    *services.CourseService
	referrals  *services.ReferralService
	rewards    *services.RewardCalculator
	tiers      *services.TierCatalog
	statements *services.StatementService
	users      UserFinder
	hub        *websocket.Hub

	jwtSecret     string
	cloudinaryURL string
	validate      *validator.Validate
	now           func() time.Time
}

func New(deps Deps) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		courses:       deps.Courses,
		referrals:     deps.Referrals,
		rewards:       deps.Rewards,
		tiers:         deps.Tiers,
		statements:    deps.Statements,
		users:         deps.Users,
		hub:           deps.Hub,
		jwtSecret:     deps.JWTSecret,
		cloudinaryURL: deps.CloudinaryURL,
		validate:      utils.NewValidator(deps.PhoneRegion),
		now:           now,
	}
}

func statusFor(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeConflict, apperrors.CodeValidation:
		return fiber.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case fiber.StatusBadRequest:
		return apperrors.CodeValidation
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return apperrors.CodeUnauthorized
	default:
		return apperrors.CodeInternal
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.Code(err)
	status := statusFor(code)
	if status >= fiber.StatusInternalServerError {
		logging.Logger.Error("🔥 Request failed",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		sentry.CaptureException(err)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperrors.Message(err), "code": code})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "code": apperrors.CodeValidation})
}

// ErrorHandler is the Fiber error handler for errors returned by handlers
// and middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			sentry.CaptureException(err)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": codeFor(fe.Code)})
	}
	return respondError(c, err)
}

func emailParam(c *fiber.Ctx) (string, error) {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return "", apperrors.Validation("A valid email is required")
	}
	return email, nil
}
