package rewards

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

var (
	ErrRewardNotFound  = errors.New("reward not found")
	ErrRewardExhausted = errors.New("reward exhausted")
	ErrDuplicateCode   = errors.New("duplicate redemption code")
	ErrUnknownGating   = errors.New("unknown gating mode")
)

// Gating decides how level and badge prerequisites combine.
type Gating string

const (
	// GatingAny makes a reward available when the level requirement is met
	// or when the reward lists badges and the user holds all of them.
	GatingAny Gating = "any"
	// GatingAll requires both the level and every listed badge.
	GatingAll Gating = "all"
)

func ParseGating(s string) (Gating, error) {
	switch g := Gating(s); g {
	case GatingAny, GatingAll:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGating, s)
}

type Status string

const (
	StatusClaimed Status = models.UserRewardStatusClaimed
	StatusUsed    Status = models.UserRewardStatusUsed
	StatusExpired Status = models.UserRewardStatusExpired
)

// Reason classifies why an operation did not succeed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonInvalid     Reason = "invalid"
	ReasonNotFound    Reason = "not_found"
	ReasonNotEligible Reason = "not_eligible"
	ReasonExhausted   Reason = "exhausted"
	ReasonNotClaimed  Reason = "not_claimed"
	ReasonExpired     Reason = "expired"
	ReasonDuplicate   Reason = "duplicate"
	ReasonUnavailable Reason = "unavailable"
)

type Reward struct {
	ID             string                `json:"id"`
	Title          catalog.LocalizedText `json:"title"`
	Description    catalog.LocalizedText `json:"description,omitempty"`
	Type           catalog.RewardType    `json:"type"`
	Category       string                `json:"category,omitempty"`
	RequiredLevel  int                   `json:"requiredLevel"`
	RequiredBadges []string              `json:"requiredBadges,omitempty"`
	TotalAvailable *int                  `json:"totalAvailable,omitempty"`
	Claimed        int                   `json:"claimed"`
}

// Remaining is nil for uncapped rewards.
func (r Reward) Remaining() *int {
	if r.TotalAvailable == nil {
		return nil
	}
	left := max(*r.TotalAvailable-r.Claimed, 0)
	return &left
}

func (r Reward) Exhausted() bool {
	return r.TotalAvailable != nil && r.Claimed >= *r.TotalAvailable
}

func (r Reward) eligible(g Gating, level int, badges []string) bool {
	levelOK := level >= r.RequiredLevel
	badgesOK := holdsAll(badges, r.RequiredBadges)
	if g == GatingAll {
		return levelOK && badgesOK
	}
	return levelOK || (len(r.RequiredBadges) > 0 && badgesOK)
}

func holdsAll(held, required []string) bool {
	for _, b := range required {
		if !slices.Contains(held, b) {
			return false
		}
	}
	return true
}

type UserReward struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	RewardID  string     `json:"rewardId"`
	Reward    *Reward    `json:"reward,omitempty"`
	Status    Status     `json:"status"`
	Code      string     `json:"code"`
	ClaimedAt time.Time  `json:"claimedAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

// EffectiveStatus derives the status at now: a claimed reward past its expiry
// reads as expired whether or not a sweep has persisted that yet.
func EffectiveStatus(ur UserReward, now time.Time) Status {
	if ur.Status == StatusClaimed && ur.ExpiresAt != nil && now.After(*ur.ExpiresAt) {
		return StatusExpired
	}
	return ur.Status
}

type ClaimResult struct {
	Success    bool        `json:"success"`
	Reason     Reason      `json:"reason,omitempty"`
	Message    string      `json:"message"`
	Code       string      `json:"code,omitempty"`
	UserReward *UserReward `json:"userReward,omitempty"`
}

type UseResult struct {
	Success bool   `json:"success"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type Stats struct {
	TotalClaimed int `json:"totalClaimed"`
	TotalActive  int `json:"totalActive"`
	TotalUsed    int `json:"totalUsed"`
	TotalExpired int `json:"totalExpired"`
}

func rewardFromModel(m *models.Reward) Reward {
	return Reward{
		ID:             m.ID,
		Title:          catalog.LocalizedText(m.Title),
		Description:    catalog.LocalizedText(m.Description),
		Type:           catalog.RewardType(m.Type),
		Category:       m.Category,
		RequiredLevel:  m.RequiredLevel,
		RequiredBadges: slices.Clone(m.RequiredBadges),
		TotalAvailable: m.TotalAvailable,
		Claimed:        m.Claimed,
	}
}

func userRewardFromModel(m *models.UserReward) UserReward {
	ur := UserReward{
		ID:        m.ID,
		UserID:    m.UserID,
		RewardID:  m.RewardID,
		Status:    Status(m.Status),
		Code:      m.Code,
		ClaimedAt: m.ClaimedAt,
		ExpiresAt: m.ExpiresAt,
		UsedAt:    m.UsedAt,
	}
	if m.Reward != nil {
		r := rewardFromModel(m.Reward)
		ur.Reward = &r
	}
	return ur
}
