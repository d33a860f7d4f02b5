package rewards

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.Reward, error)
	// GetByID returns nil, nil for an unknown reward.
	GetByID(ctx context.Context, id string) (*models.Reward, error)
	// Claim increments the reward's claimed counter if a unit is left and
	// inserts userReward, atomically. It returns ErrRewardNotFound,
	// ErrRewardExhausted or ErrDuplicateCode for the expected failures and
	// fills userReward.Reward on success.
	Claim(ctx context.Context, userReward *models.UserReward) error
	GetUserRewards(ctx context.Context, userID string) ([]*models.UserReward, error)
	// GetUserReward returns nil, nil when the user has no such claim.
	GetUserReward(ctx context.Context, userID, id string) (*models.UserReward, error)
	// MarkUsed flips a claimed, unexpired row to used and reports whether it did.
	MarkUsed(ctx context.Context, userID, id string, usedAt time.Time) (bool, error)
	// ExpireClaims persists the expired status for claims past expiry.
	ExpireClaims(ctx context.Context, now time.Time) (int64, error)
}

type MentorRepository interface {
	CreateMentorApplication(ctx context.Context, application *models.MentorApplication) error
	HasPendingApplication(ctx context.Context, userID string) (bool, error)
}
