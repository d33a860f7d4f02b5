package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type progressRepository struct {
	*BaseRepository
}

var _ progress.Repository = &progressRepository{}

func NewProgressRepository(db *bun.DB) *progressRepository {
	return &progressRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *progressRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProgress, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	p := new(models.UserProgress)
	err := r.db.NewSelect().
		Model(p).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user_progress", userID, err)
	}
	return p, nil
}

func (r *progressRepository) Upsert(ctx context.Context, p *models.UserProgress) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(p).
		On("CONFLICT (user_id) DO UPDATE").
		Set("total_xp = EXCLUDED.total_xp").
		Set("level = EXCLUDED.level").
		Set("reels_watched = EXCLUDED.reels_watched").
		Set("quizzes_completed = EXCLUDED.quizzes_completed").
		Set("stories_read = EXCLUDED.stories_read").
		Set("reels_points = EXCLUDED.reels_points").
		Set("quiz_points = EXCLUDED.quiz_points").
		Set("stories_points = EXCLUDED.stories_points").
		Set("badges = EXCLUDED.badges").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	return r.HandleErrorWithID("upsert", "user_progress", p.UserID, err)
}

func (r *progressRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.UserProgress)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return r.HandleErrorWithID("delete", "user_progress", userID, err)
}
