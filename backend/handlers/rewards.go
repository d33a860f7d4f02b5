package handlers

import (
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards"
	"github.com/gofiber/fiber/v2"
)

// AvailableRewards lists what the caller can claim right now.
func AvailableRewards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot := webApp.Progress.Load(c.Context(), utils.UserID(c))

		available, err := webApp.Ledger.AvailableRewards(c.Context(), snapshot.Level, snapshot.Badges)
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, available, "")
	}
}

func ListRewards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := webApp.Ledger.Rewards(c.Context())
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, all, "")
	}
}

func ClaimReward(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.UserID(c)
		snapshot := webApp.Progress.Load(c.Context(), userID)

		result, err := webApp.Ledger.Claim(c.Context(), userID, c.Params("id"), snapshot.Level, snapshot.Badges)
		if err != nil {
			return err
		}
		if !result.Success {
			return sendReason(c, result.Reason, result.Message, result)
		}
		return utils.SendCreated(c, result, result.Message)
	}
}

func MyRewards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := webApp.Ledger.UserRewards(c.Context(), utils.UserID(c))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, claims, "")
	}
}

func UseReward(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := webApp.Ledger.MarkUsed(c.Context(), utils.UserID(c), c.Params("id"))
		if !result.Success {
			return sendReason(c, result.Reason, result.Message, result)
		}
		return utils.SendSuccess(c, result, result.Message)
	}
}

func RewardStats(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := webApp.Ledger.Stats(c.Context(), utils.UserID(c))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, stats, "")
	}
}

func SubmitMentorApplication(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form rewards.MentorApplication
		if err := c.BodyParser(&form); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		result := webApp.Mentors.Submit(c.Context(), utils.UserID(c), form)
		if !result.Success {
			return sendReason(c, result.Reason, result.Message, result)
		}
		return utils.SendCreated(c, result, result.Message)
	}
}
