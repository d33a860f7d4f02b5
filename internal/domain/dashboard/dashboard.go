package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
)

type ProgressReader interface {
	Load(ctx context.Context, userID string) progress.UserProgress
}

type ActivityReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]activity.Record, error)
	Since(ctx context.Context, userID string, since time.Time) ([]activity.Record, error)
}

type Milestone struct {
	Level       int `json:"level"`
	XPRequired  int `json:"xpRequired"`
	XPRemaining int `json:"xpRemaining"`
	Percent     int `json:"percent"`
}

type Summary struct {
	Progress           progress.UserProgress `json:"progress"`
	Streak             int                   `json:"streak"`
	NextMilestone      Milestone             `json:"nextMilestone"`
	MostActiveCategory progress.Category     `json:"mostActiveCategory,omitempty"`
	RecentActivity     []activity.Record     `json:"recentActivity"`
}

type Service struct {
	progress ProgressReader
	activity ActivityReader
	now      func() time.Time
}

func NewService(p ProgressReader, a ActivityReader) *Service {
	return &Service{progress: p, activity: a, now: time.Now}
}

// Summary builds the dashboard view. A history read failure leaves the
// activity-derived fields empty rather than failing the whole view.
func (s *Service) Summary(ctx context.Context, userID string, recentLimit int) Summary {
	p := s.progress.Load(ctx, userID)
	summary := Summary{
		Progress:           p,
		NextMilestone:      NextMilestone(p.TotalXP),
		MostActiveCategory: MostActiveCategory(p),
		RecentActivity:     []activity.Record{},
	}

	now := s.now()
	lookback, err := s.activity.Since(ctx, userID, activity.StreakSince(now))
	if err != nil {
		slog.Warn("Failed to read activity for streak",
			slog.String("user_id", userID),
			slog.Any("error", err))
	} else {
		summary.Streak = activity.Streak(lookback, now)
	}

	if recentLimit <= 0 {
		return summary
	}
	recent, err := s.activity.Recent(ctx, userID, recentLimit)
	if err != nil {
		slog.Warn("Failed to read activity for dashboard",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return summary
	}
	summary.RecentActivity = recent
	return summary
}

// NextMilestone is the next level boundary and how far into the current level
// the user is.
func NextMilestone(totalXP int) Milestone {
	level := progress.LevelFromXP(totalXP)
	required := level * progress.XPPerLevel
	into := totalXP - (level-1)*progress.XPPerLevel
	return Milestone{
		Level:       level + 1,
		XPRequired:  required,
		XPRemaining: required - totalXP,
		Percent:     into * 100 / progress.XPPerLevel,
	}
}

// MostActiveCategory is the category with the most points, empty for a user
// with none. Ties go to the earlier category in progress.Categories.
func MostActiveCategory(p progress.UserProgress) progress.Category {
	var best progress.Category
	bestPoints := 0
	for _, c := range progress.Categories {
		if pts := p.Points(c); pts > bestPoints {
			best, bestPoints = c, pts
		}
	}
	return best
}
