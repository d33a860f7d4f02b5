package repositories

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type activityRepository struct {
	*BaseRepository
}

var _ activity.Repository = &activityRepository{}

func NewActivityRepository(db *bun.DB) *activityRepository {
	return &activityRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *activityRepository) Insert(ctx context.Context, a *models.Activity) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(a).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return r.HandleErrorWithID("insert", "activity", a.ID, err)
}

func (r *activityRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []*models.Activity
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "activity", err)
	}
	return rows, nil
}

func (r *activityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Activity, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []*models.Activity
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "activity", err)
	}
	return rows, nil
}

func (r *activityRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Activity)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return r.HandleErrorWithID("delete", "activity", userID, err)
}
