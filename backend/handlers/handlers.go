package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ellavondegurechaff/healthquest/backend/models"
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/dashboard"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards"
	"github.com/ellavondegurechaff/healthquest/internal/domain/stories"
	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionSyncer opens and closes remote sync sessions. It is nil when remote
// sync is disabled.
type SessionSyncer interface {
	OpenSession(ctx context.Context, userID string) progress.UserProgress
	CloseSession(ctx context.Context, userID string) bool
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Catalog   *catalog.Catalog
	Progress  *progress.Store
	Scoring   *progress.Engine
	Activity  *activity.Log
	Ledger    *rewards.Ledger
	Mentors   *rewards.MentorService
	Stories   *stories.Engine
	Sessions  SessionSyncer
	Dashboard *dashboard.Service
	DB        Pinger
	Version   string
	Commit    string
}

// queryInt reads a positive integer query parameter, falling back to def when
// it is absent.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}

func lang(c *fiber.Ctx) string {
	return c.Query("lang", "en")
}

// HealthCheck reports the state of every backing component. The database is
// the only component whose failure marks the service unhealthy.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := models.NewHealthCheck(webApp.Version, webApp.Commit)

		if webApp.DB != nil {
			ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
			defer cancel()
			if err := webApp.DB.Ping(ctx); err != nil {
				slog.Error("Health check database ping failed",
					slog.String("type", "db"),
					slog.Any("error", err))
				health.AddComponent("database", "unhealthy", err.Error(), nil)
			} else {
				health.AddComponent("database", "healthy", "", nil)
			}
		}

		if webApp.Catalog != nil {
			stats := webApp.Catalog.Stats()
			health.AddComponent("catalog", "healthy", "", map[string]interface{}{
				"quizzes":  stats.Quizzes,
				"stories":  stats.Stories,
				"reels":    stats.Reels,
				"rewards":  stats.Rewards,
				"excluded": stats.Excluded,
			})
		}

		if webApp.Sessions != nil {
			health.AddComponent("sync", "healthy", "", nil)
		} else {
			health.AddComponent("sync", "disabled", "remote sync is not configured", nil)
		}

		if health.Status != "healthy" {
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, health)
		}
		return utils.SendJSON(c, fiber.StatusOK, health)
	}
}

// sendReason maps a result's failure kind onto an HTTP status.
func sendReason(c *fiber.Ctx, reason rewards.Reason, message string, body interface{}) error {
	status := fiber.StatusInternalServerError
	switch reason {
	case rewards.ReasonInvalid:
		status = fiber.StatusBadRequest
	case rewards.ReasonNotFound:
		status = fiber.StatusNotFound
	case rewards.ReasonNotEligible:
		status = fiber.StatusForbidden
	case rewards.ReasonExhausted, rewards.ReasonNotClaimed, rewards.ReasonDuplicate:
		status = fiber.StatusConflict
	case rewards.ReasonExpired:
		status = fiber.StatusGone
	case rewards.ReasonUnavailable:
		status = fiber.StatusServiceUnavailable
	}
	return utils.SendJSON(c, status, models.NewFailureResponse(string(reason), message, body))
}
