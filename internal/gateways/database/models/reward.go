package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	UserRewardStatusClaimed = "claimed"
	UserRewardStatusUsed    = "used"
	UserRewardStatusExpired = "expired"
)

type Reward struct {
	bun.BaseModel `bun:"table:rewards,alias:r"`

	ID             string            `bun:"id,pk"`
	Title          map[string]string `bun:"title,type:jsonb"`
	Description    map[string]string `bun:"description,type:jsonb"`
	Type           string            `bun:"type,notnull"`
	Category       string            `bun:"category"`
	RequiredLevel  int               `bun:"required_level,notnull,default:1"`
	RequiredBadges []string          `bun:"required_badges,array"`
	TotalAvailable *int              `bun:"total_available"`
	Claimed        int               `bun:"claimed,notnull,default:0"`
	CreatedAt      time.Time         `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time         `bun:"updated_at,notnull,default:current_timestamp"`
}

// Exhausted reports whether a capped reward has no units left.
func (r *Reward) Exhausted() bool {
	return r.TotalAvailable != nil && r.Claimed >= *r.TotalAvailable
}

type UserReward struct {
	bun.BaseModel `bun:"table:user_rewards,alias:ur"`

	ID        string     `bun:"id,pk"`
	UserID    string     `bun:"user_id,notnull"`
	RewardID  string     `bun:"reward_id,notnull"`
	Status    string     `bun:"status,notnull,default:'claimed'"`
	Code      string     `bun:"code,notnull,unique"`
	ClaimedAt time.Time  `bun:"claimed_at,notnull"`
	ExpiresAt *time.Time `bun:"expires_at"`
	UsedAt    *time.Time `bun:"used_at"`

	Reward *Reward `bun:"rel:belongs-to,join:reward_id=id"`
}

type MentorApplication struct {
	bun.BaseModel `bun:"table:mentor_applications,alias:ma"`

	ID         string    `bun:"id,pk"`
	UserID     string    `bun:"user_id,notnull"`
	Name       string    `bun:"name,notnull"`
	Email      string    `bun:"email,notnull"`
	Age        *int      `bun:"age"`
	Motivation string    `bun:"motivation,notnull"`
	Experience string    `bun:"experience"`
	Status     string    `bun:"status,notnull,default:'pending'"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
