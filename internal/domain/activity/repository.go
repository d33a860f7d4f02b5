package activity

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

type Repository interface {
	Insert(ctx context.Context, activity *models.Activity) error
	// ListRecent returns up to limit rows for the user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
	// ListSince returns every row created at or after since, newest first.
	ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Activity, error)
	DeleteByUser(ctx context.Context, userID string) error
}

func toModel(r Record) *models.Activity {
	return &models.Activity{
		ID:        int64(r.ID),
		UserID:    r.UserID,
		Type:      string(r.Type),
		Title:     r.Title,
		XPEarned:  r.XPEarned,
		CreatedAt: r.Timestamp,
	}
}

func fromModel(m *models.Activity) Record {
	return Record{
		ID:        snowflake.ID(m.ID),
		UserID:    m.UserID,
		Type:      Type(m.Type),
		Title:     m.Title,
		XPEarned:  m.XPEarned,
		Timestamp: m.CreatedAt,
	}
}
