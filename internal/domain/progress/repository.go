package progress

import (
	"context"
	"slices"

	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

type Repository interface {
	// GetByUserID returns nil, nil when the user has no stored progress.
	GetByUserID(ctx context.Context, userID string) (*models.UserProgress, error)
	Upsert(ctx context.Context, progress *models.UserProgress) error
	Delete(ctx context.Context, userID string) error
}

func toModel(p UserProgress) *models.UserProgress {
	return &models.UserProgress{
		UserID:           p.UserID,
		TotalXP:          p.TotalXP,
		Level:            p.Level,
		ReelsWatched:     p.ReelsWatched,
		QuizzesCompleted: p.QuizzesCompleted,
		StoriesRead:      p.StoriesRead,
		ReelsPoints:      p.ReelsPoints,
		QuizPoints:       p.QuizPoints,
		StoriesPoints:    p.StoriesPoints,
		Badges:           slices.Clone(p.Badges),
		LastUpdated:      p.LastUpdated,
	}
}

func fromModel(m *models.UserProgress) UserProgress {
	p := UserProgress{
		UserID:           m.UserID,
		ReelsWatched:     m.ReelsWatched,
		QuizzesCompleted: m.QuizzesCompleted,
		StoriesRead:      m.StoriesRead,
		ReelsPoints:      m.ReelsPoints,
		QuizPoints:       m.QuizPoints,
		StoriesPoints:    m.StoriesPoints,
		Badges:           slices.Clone(m.Badges),
		LastUpdated:      m.LastUpdated,
	}
	p.Normalize()
	return p
}
