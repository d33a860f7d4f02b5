package mock

import (
	"time"

	models "github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

func intPtr(v int) *int { return &v }

var Now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// Rewards returns a fresh copy of the reward fixtures on each call.
func Rewards() []*models.Reward {
	return []*models.Reward{
		{ID: "coupon-10", Title: map[string]string{"en": "10% pharmacy coupon"}, Type: "coupon", RequiredLevel: 2, TotalAvailable: intPtr(5), Claimed: 1},
		{ID: "workshop", Title: map[string]string{"en": "Free workshop seat"}, Type: "activity", RequiredLevel: 3},
		{ID: "mentor-chat", Title: map[string]string{"en": "Mentor chat"}, Type: "mentor", RequiredLevel: 6, RequiredBadges: []string{"knowledge-seeker"}},
		{ID: "sold-out", Title: map[string]string{"en": "Concert ticket"}, Type: "coupon", RequiredLevel: 1, TotalAvailable: intPtr(2), Claimed: 2},
	}
}

func UserRewards() []*models.UserReward {
	past := Now.Add(-time.Hour)
	future := Now.Add(24 * time.Hour)
	used := Now.Add(-48 * time.Hour)
	return []*models.UserReward{
		{ID: "ur-active", UserID: "u1", RewardID: "coupon-10", Status: "claimed", Code: "AAAA111111", ClaimedAt: Now.Add(-time.Hour), ExpiresAt: &future},
		{ID: "ur-lapsed", UserID: "u1", RewardID: "workshop", Status: "claimed", Code: "BBBB222222", ClaimedAt: Now.Add(-8 * 24 * time.Hour), ExpiresAt: &past},
		{ID: "ur-used", UserID: "u1", RewardID: "coupon-10", Status: "used", Code: "CCCC333333", ClaimedAt: Now.Add(-72 * time.Hour), ExpiresAt: &future, UsedAt: &used},
		{ID: "ur-swept", UserID: "u1", RewardID: "workshop", Status: "expired", Code: "DDDD444444", ClaimedAt: Now.Add(-30 * 24 * time.Hour), ExpiresAt: &past},
	}
}
