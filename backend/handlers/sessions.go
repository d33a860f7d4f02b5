package handlers

import (
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/gofiber/fiber/v2"
)

// OpenSession reconciles the caller's progress with the remote copy and keeps
// it in interval sync until the session is closed.
func OpenSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.Sessions == nil {
			return utils.SendServiceUnavailable(c, "Remote sync is disabled")
		}
		snapshot := webApp.Sessions.OpenSession(c.Context(), utils.UserID(c))
		return utils.SendSuccess(c, snapshot, "Session opened")
	}
}

func CloseSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.Sessions == nil {
			return utils.SendServiceUnavailable(c, "Remote sync is disabled")
		}
		pushed := webApp.Sessions.CloseSession(c.Context(), utils.UserID(c))
		return utils.SendSuccess(c, fiber.Map{"pushed": pushed}, "Session closed")
	}
}
