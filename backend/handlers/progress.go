package handlers

import (
	"errors"
	"log/slog"

	"github.com/ellavondegurechaff/healthquest/backend/models"
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/ellavondegurechaff/healthquest/healthquest/config"
	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/gofiber/fiber/v2"
)

func GetProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot := webApp.Progress.Load(c.Context(), utils.UserID(c))
		return utils.SendSuccess(c, snapshot, "")
	}
}

// PatchProgress merges a partial snapshot. Derived fields in the body are
// ignored and badges can only be added.
func PatchProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch progress.Patch
		if err := c.BodyParser(&patch); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		snapshot, err := webApp.Progress.Merge(c.Context(), utils.UserID(c), patch)
		if errors.Is(err, progress.ErrNegativeField) || errors.Is(err, progress.ErrDecreasingField) {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, snapshot, "Progress updated")
	}
}

// ResetProgress wipes progress and history and drops every story session of
// the caller.
func ResetProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.UserID(c)
		snapshot, err := webApp.Scoring.Reset(c.Context(), userID)
		if err != nil {
			return err
		}

		storyIDs := make([]string, 0, len(webApp.Catalog.Stories))
		for _, s := range webApp.Catalog.Stories {
			storyIDs = append(storyIDs, s.ID)
		}
		webApp.Stories.Forget(userID, storyIDs...)

		slog.Info("Progress reset",
			slog.String("type", "api"),
			slog.String("user_id", userID))
		return utils.SendSuccess(c, snapshot, "Progress reset")
	}
}

func AddPoints(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.PointsRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		category, err := progress.ParseCategory(req.Category)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), map[string]string{"category": req.Category})
		}

		result, err := webApp.Scoring.AddPoints(c.Context(), utils.UserID(c), category, req.Amount)
		if errors.Is(err, progress.ErrInvalidAmount) {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, result, "Points added")
	}
}

// ListActivity returns the caller's most recent activity, newest first.
func ListActivity(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit", config.DefaultActivityLimit)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		limit = min(limit, config.MaxActivityLimit)

		records, err := webApp.Activity.Recent(c.Context(), utils.UserID(c), limit)
		if errors.Is(err, activity.ErrInvalidLimit) {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, records, "")
	}
}

func GetDashboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recent, err := queryInt(c, "recent", config.DefaultRecentActivity)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		recent = min(recent, config.MaxActivityLimit)

		summary := webApp.Dashboard.Summary(c.Context(), utils.UserID(c), recent)
		return utils.SendSuccess(c, summary, "")
	}
}

// ListBadges returns the whole badge catalog with the caller's unlock state.
func ListBadges(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot := webApp.Progress.Load(c.Context(), utils.UserID(c))

		badges := make([]models.BadgeStatus, 0, len(progress.DefaultBadges))
		for _, b := range progress.DefaultBadges {
			badges = append(badges, models.BadgeStatus{
				Badge:    b,
				Unlocked: snapshot.HasBadge(b.ID),
			})
		}
		return utils.SendSuccess(c, badges, "")
	}
}
