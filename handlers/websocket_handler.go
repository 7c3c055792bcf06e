package handlers

import (
	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireUpgrade rejects plain HTTP requests on the websocket route.
func RequireUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if c.Query("email") == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email query parameter is required")
	}
	return c.Next()
}

// ServeReferralFeed subscribes the connection to status changes of the
// referrals submitted by the email in the query string.
func (h *Handler) ServeReferralFeed(c *websocketcontrib.Conn) {
	email := c.Query("email")
	client := &websocket.Client{Email: email, Conn: c}
	h.hub.Register(client)
	logging.Logger.Info("Referral feed subscribed", zap.String("email", email))

	defer func() {
		h.hub.Unregister(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				logging.Logger.Debug("Referral feed closed", zap.String("email", email))
			} else {
				logging.Logger.Warn("Referral feed read error", zap.String("email", email), zap.Error(err))
			}
			return
		}
	}
}
