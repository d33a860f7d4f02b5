package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/logger"
	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type rewardRepository struct {
	*BaseRepository
}

var (
	_ rewards.Repository       = &rewardRepository{}
	_ rewards.MentorRepository = &rewardRepository{}
)

func NewRewardRepository(db *bun.DB) *rewardRepository {
	return &rewardRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *rewardRepository) GetAll(ctx context.Context) ([]*models.Reward, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var list []*models.Reward
	err := r.db.NewSelect().
		Model(&list).
		Order("required_level ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "reward", err)
	}
	return list, nil
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*models.Reward, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	reward := new(models.Reward)
	err := r.db.NewSelect().
		Model(reward).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("get", "reward", id, err)
	}
	return reward, nil
}

// Claim takes one unit and records the claim in one transaction. The
// conditional increment is what enforces the cap across processes.
func (r *rewardRepository) Claim(ctx context.Context, ur *models.UserReward) error {
	ql := logger.NewQueryLogger("claim_reward", "UPDATE rewards SET claimed = claimed + 1", ur.RewardID, ur.UserID)

	var affected int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		reward := new(models.Reward)
		res, err := tx.NewUpdate().
			Model(reward).
			Set("claimed = claimed + 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", ur.RewardID).
			Where("total_available IS NULL OR claimed < total_available").
			Returning("*").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		exists := affected > 0
		if !exists {
			exists, err = tx.NewSelect().
				Model((*models.Reward)(nil)).
				Where("id = ?", ur.RewardID).
				Exists(ctx)
			if err != nil {
				return err
			}
		}
		if err := claimOutcome(affected, exists); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(ur).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return rewards.ErrDuplicateCode
			}
			return err
		}
		ur.Reward = reward
		return nil
	})
	ql.Log(err, affected)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, rewards.ErrRewardNotFound),
		errors.Is(err, rewards.ErrRewardExhausted),
		errors.Is(err, rewards.ErrDuplicateCode):
		return err
	default:
		return r.HandleErrorWithID("claim", "reward", ur.RewardID, err)
	}
}

// claimOutcome reads the conditional increment: no row updated means the
// reward is either missing or already at its cap.
func claimOutcome(affected int64, exists bool) error {
	switch {
	case affected > 0:
		return nil
	case !exists:
		return rewards.ErrRewardNotFound
	default:
		return rewards.ErrRewardExhausted
	}
}

func (r *rewardRepository) GetUserRewards(ctx context.Context, userID string) ([]*models.UserReward, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var list []*models.UserReward
	err := r.db.NewSelect().
		Model(&list).
		Relation("Reward").
		Where("ur.user_id = ?", userID).
		Order("ur.claimed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "user_reward", err)
	}
	return list, nil
}

func (r *rewardRepository) GetUserReward(ctx context.Context, userID, id string) (*models.UserReward, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ur := new(models.UserReward)
	err := r.db.NewSelect().
		Model(ur).
		Relation("Reward").
		Where("ur.id = ?", id).
		Where("ur.user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user_reward", id, err)
	}
	return ur, nil
}

func (r *rewardRepository) MarkUsed(ctx context.Context, userID, id string, usedAt time.Time) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.UserReward)(nil)).
		Set("status = ?", models.UserRewardStatusUsed).
		Set("used_at = ?", usedAt).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Where("status = ?", models.UserRewardStatusClaimed).
		Where("expires_at IS NULL OR expires_at >= ?", usedAt).
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("mark_used", "user_reward", id, err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *rewardRepository) ExpireClaims(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	ql := logger.NewQueryLogger("expire_claims", "UPDATE user_rewards SET status = 'expired'", now)
	res, err := r.db.NewUpdate().
		Model((*models.UserReward)(nil)).
		Set("status = ?", models.UserRewardStatusExpired).
		Where("status = ?", models.UserRewardStatusClaimed).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		ql.Log(err, 0)
		return 0, r.HandleError("expire", "user_reward", err)
	}
	n, _ := res.RowsAffected()
	ql.Log(nil, n)
	return n, nil
}

func (r *rewardRepository) CreateMentorApplication(ctx context.Context, app *models.MentorApplication) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(app).Exec(ctx)
	return r.HandleErrorWithID("insert", "mentor_application", app.ID, err)
}

func (r *rewardRepository) HasPendingApplication(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.MentorApplication)(nil)).
		Where("user_id = ?", userID).
		Where("status = ?", "pending").
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("exists", "mentor_application", err)
	}
	return exists, nil
}
