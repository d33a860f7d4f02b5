package middleware

import (
	"log/slog"
	"regexp"

	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/gofiber/fiber/v2"
)

const UserIDHeader = "X-User-ID"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:@-]{1,128}$`)

// Identity takes the caller's opaque user id from the X-User-ID header.
// Authentication happens upstream; this only rejects missing or malformed ids.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(UserIDHeader)
		if userID == "" {
			return utils.SendUnauthorized(c, "Missing "+UserIDHeader+" header")
		}
		if !userIDPattern.MatchString(userID) {
			slog.Debug("Rejected malformed user id",
				slog.String("type", "api"),
				slog.String("ip", utils.GetIPAddress(c)))
			return utils.SendBadRequest(c, "Malformed "+UserIDHeader+" header", nil)
		}

		c.Locals(utils.UserIDKey, userID)
		return c.Next()
	}
}
