package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"github.com/google/uuid"
)

const (
	DefaultClaimTTL = 7 * 24 * time.Hour
	codeLength      = 10
	maxCodeAttempts = 3
)

type Config struct {
	Gating   Gating
	ClaimTTL time.Duration
}

// Ledger gates, issues and tracks reward redemptions. Claims on the same
// reward are serialized in-process and the repository re-checks the cap in
// the same transaction that bumps the counter, so concurrent claims across
// processes cannot oversell a capped reward either.
type Ledger struct {
	repo     Repository
	locks    *utils.KeyedMutex
	gating   Gating
	claimTTL time.Duration
	now      func() time.Time
	newCode  func() string
}

func NewLedger(repo Repository, cfg Config) *Ledger {
	if cfg.Gating == "" {
		cfg.Gating = GatingAny
	}
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = DefaultClaimTTL
	}
	return &Ledger{
		repo:     repo,
		locks:    utils.NewKeyedMutex(),
		gating:   cfg.Gating,
		claimTTL: cfg.ClaimTTL,
		now:      time.Now,
		newCode:  newRedemptionCode,
	}
}

// newRedemptionCode returns a short upper-case alphanumeric code.
func newRedemptionCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:codeLength])
}

// AvailableRewards lists rewards the user may claim that still have units left.
func (l *Ledger) AvailableRewards(ctx context.Context, level int, badges []string) ([]Reward, error) {
	all, err := l.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	available := make([]Reward, 0, len(all))
	for _, m := range all {
		r := rewardFromModel(m)
		if r.Exhausted() || !r.eligible(l.gating, level, badges) {
			continue
		}
		available = append(available, r)
	}
	return available, nil
}

func (l *Ledger) Rewards(ctx context.Context) ([]Reward, error) {
	all, err := l.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	out := make([]Reward, 0, len(all))
	for _, m := range all {
		out = append(out, rewardFromModel(m))
	}
	return out, nil
}

// Claim issues one unit of a reward to a user at the given level holding the
// given badges. Not-found, not-eligible and exhausted are reported in the
// result; the error is reserved for infrastructure failures.
func (l *Ledger) Claim(ctx context.Context, userID, rewardID string, level int, badges []string) (*ClaimResult, error) {
	if userID == "" || rewardID == "" {
		return &ClaimResult{Reason: ReasonInvalid, Message: "A reward id is required"}, nil
	}

	unlock := l.locks.Lock(rewardID)
	defer unlock()

	m, err := l.repo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reward %s: %w", rewardID, err)
	}
	if m == nil {
		return &ClaimResult{Reason: ReasonNotFound, Message: "Reward not found"}, nil
	}
	if r := rewardFromModel(m); !r.eligible(l.gating, level, badges) {
		return &ClaimResult{Reason: ReasonNotEligible, Message: notEligibleMessage(r, l.gating)}, nil
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		now := l.now().UTC()
		expiresAt := now.Add(l.claimTTL)
		ur := &models.UserReward{
			ID:        uuid.NewString(),
			UserID:    userID,
			RewardID:  rewardID,
			Status:    models.UserRewardStatusClaimed,
			Code:      l.newCode(),
			ClaimedAt: now,
			ExpiresAt: &expiresAt,
		}

		err := l.repo.Claim(ctx, ur)
		switch {
		case err == nil:
			claimed := userRewardFromModel(ur)
			slog.Info("Reward claimed",
				slog.String("user_id", userID),
				slog.String("reward_id", rewardID))
			return &ClaimResult{
				Success:    true,
				Message:    "Reward claimed",
				Code:       claimed.Code,
				UserReward: &claimed,
			}, nil
		case errors.Is(err, ErrRewardNotFound):
			return &ClaimResult{Reason: ReasonNotFound, Message: "Reward not found"}, nil
		case errors.Is(err, ErrRewardExhausted):
			return &ClaimResult{Reason: ReasonExhausted, Message: "Exhausted: this reward has no units left"}, nil
		case errors.Is(err, ErrDuplicateCode):
			slog.Debug("Redemption code collision, retrying",
				slog.String("reward_id", rewardID),
				slog.Int("attempt", attempt))
			continue
		default:
			return nil, fmt.Errorf("failed to claim reward %s: %w", rewardID, err)
		}
	}

	return nil, fmt.Errorf("failed to claim reward %s: %w after %d attempts", rewardID, ErrDuplicateCode, maxCodeAttempts)
}

func notEligibleMessage(r Reward, g Gating) string {
	if len(r.RequiredBadges) == 0 {
		return fmt.Sprintf("Reach level %d to unlock this reward", r.RequiredLevel)
	}
	badges := strings.Join(r.RequiredBadges, ", ")
	if g == GatingAll {
		return fmt.Sprintf("Reach level %d and earn %s to unlock this reward", r.RequiredLevel, badges)
	}
	return fmt.Sprintf("Reach level %d or earn %s to unlock this reward", r.RequiredLevel, badges)
}

// MarkUsed moves one of the user's claims from claimed to used. Every failure,
// including an unknown id, is reported as Success=false.
func (l *Ledger) MarkUsed(ctx context.Context, userID, userRewardID string) *UseResult {
	ur, err := l.repo.GetUserReward(ctx, userID, userRewardID)
	if err != nil {
		slog.Warn("Failed to load user reward",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.String("user_reward_id", userRewardID),
			slog.Any("error", err))
		return &UseResult{Reason: ReasonUnavailable, Message: "Could not update this reward right now"}
	}
	if ur == nil {
		return &UseResult{Reason: ReasonNotFound, Message: "Reward not found"}
	}

	now := l.now().UTC()
	switch EffectiveStatus(userRewardFromModel(ur), now) {
	case StatusClaimed:
	case StatusExpired:
		return &UseResult{Reason: ReasonExpired, Message: "This reward has expired"}
	default:
		return &UseResult{Reason: ReasonNotClaimed, Message: "This reward has already been used"}
	}

	ok, err := l.repo.MarkUsed(ctx, userID, userRewardID, now)
	if err != nil {
		slog.Warn("Failed to mark reward used",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.String("user_reward_id", userRewardID),
			slog.Any("error", err))
		return &UseResult{Reason: ReasonUnavailable, Message: "Could not update this reward right now"}
	}
	if !ok {
		// lost a race with another use or the expiry sweep
		return &UseResult{Reason: ReasonNotClaimed, Message: "This reward is no longer claimable"}
	}
	return &UseResult{Success: true, Message: "Reward marked as used"}
}

// UserRewards lists the user's claims with their effective status.
func (l *Ledger) UserRewards(ctx context.Context, userID string) ([]UserReward, error) {
	rows, err := l.repo.GetUserRewards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user rewards: %w", err)
	}

	now := l.now()
	out := make([]UserReward, 0, len(rows))
	for _, m := range rows {
		ur := userRewardFromModel(m)
		ur.Status = EffectiveStatus(ur, now)
		out = append(out, ur)
	}
	return out, nil
}

func (l *Ledger) Stats(ctx context.Context, userID string) (Stats, error) {
	list, err := l.UserRewards(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalClaimed: len(list)}
	for _, ur := range list {
		switch ur.Status {
		case StatusClaimed:
			stats.TotalActive++
		case StatusUsed:
			stats.TotalUsed++
		case StatusExpired:
			stats.TotalExpired++
		}
	}
	return stats, nil
}

// ExpireClaims persists the expired status for overdue claims. Reads never
// depend on it since EffectiveStatus derives expiry anyway.
func (l *Ledger) ExpireClaims(ctx context.Context) (int64, error) {
	n, err := l.repo.ExpireClaims(ctx, l.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire claims: %w", err)
	}
	if n > 0 {
		slog.Info("Expired stale reward claims", slog.Int64("count", n))
	}
	return n, nil
}
