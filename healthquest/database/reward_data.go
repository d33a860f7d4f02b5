package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/jackc/pgx/v5"
)

const upsertRewardSQL = `
INSERT INTO rewards (id, title, description, type, category, required_level, required_badges, total_available, claimed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, now(), now())
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	type = EXCLUDED.type,
	category = EXCLUDED.category,
	required_level = EXCLUDED.required_level,
	required_badges = EXCLUDED.required_badges,
	total_available = EXCLUDED.total_available,
	updated_at = now()`

// InitializeRewardData upserts the catalog's rewards. Existing rows keep their
// claimed counter so reseeding never hands out units twice.
func (db *DB) InitializeRewardData(ctx context.Context, list []catalog.Reward) error {
	if len(list) == 0 {
		slog.Info("No rewards in catalog, skipping reward seeding", slog.String("type", "db"))
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range list {
		title, err := json.Marshal(r.Title)
		if err != nil {
			return fmt.Errorf("failed to encode title of reward %s: %w", r.ID, err)
		}
		description, err := json.Marshal(r.Description)
		if err != nil {
			return fmt.Errorf("failed to encode description of reward %s: %w", r.ID, err)
		}
		badges := r.RequiredBadges
		if badges == nil {
			badges = []string{}
		}
		batch.Queue(upsertRewardSQL,
			r.ID, string(title), string(description), string(r.Type), r.Category,
			r.RequiredLevel, badges, r.TotalAvailable)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, r := range list {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed reward %s: %w", r.ID, err)
		}
	}

	slog.Info("Reward data initialized",
		slog.String("type", "db"),
		slog.Int("rewards", len(list)))
	return nil
}
