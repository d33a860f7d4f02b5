package progress

import (
	"slices"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is a static catalog entry. Unlock must be monotonic: if it holds for a
// snapshot it must hold for every snapshot with larger counters.
type Badge struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Icon        string                  `json:"icon"`
	Rarity      Rarity                  `json:"rarity"`
	Unlock      func(UserProgress) bool `json:"-"`
}

const (
	BadgeReelWatcher     = "reel-watcher"
	BadgeReelMaster      = "reel-master"
	BadgeKnowledgeSeeker = "knowledge-seeker"
	BadgeQuizMaster      = "quiz-master"
	BadgeStoryExplorer   = "story-explorer"
	BadgeHealthChampion  = "health-champion"
)

var DefaultBadges = []Badge{
	{
		ID:          BadgeReelWatcher,
		Name:        "Reel Watcher",
		Description: "Watch 5 reels",
		Icon:        "🎬",
		Rarity:      RarityCommon,
		Unlock:      func(p UserProgress) bool { return p.ReelsWatched >= 5 },
	},
	{
		ID:          BadgeReelMaster,
		Name:        "Reel Master",
		Description: "Watch 15 reels",
		Icon:        "🎥",
		Rarity:      RarityRare,
		Unlock:      func(p UserProgress) bool { return p.ReelsWatched >= 15 },
	},
	{
		ID:          BadgeKnowledgeSeeker,
		Name:        "Knowledge Seeker",
		Description: "Earn 1000 XP",
		Icon:        "📚",
		Rarity:      RarityEpic,
		Unlock:      func(p UserProgress) bool { return p.TotalXP >= 1000 },
	},
	{
		ID:          BadgeQuizMaster,
		Name:        "Quiz Master",
		Description: "Complete 10 quizzes",
		Icon:        "🧠",
		Rarity:      RarityRare,
		Unlock:      func(p UserProgress) bool { return p.QuizzesCompleted >= 10 },
	},
	{
		ID:          BadgeStoryExplorer,
		Name:        "Story Explorer",
		Description: "Finish 3 stories",
		Icon:        "🧭",
		Rarity:      RarityCommon,
		Unlock:      func(p UserProgress) bool { return p.StoriesRead >= 3 },
	},
	{
		ID:          BadgeHealthChampion,
		Name:        "Health Champion",
		Description: "Reach level 10",
		Icon:        "🏆",
		Rarity:      RarityLegendary,
		Unlock:      func(p UserProgress) bool { return p.Level >= 10 },
	},
}

// CheckBadgeUnlock returns the held badges plus every default badge whose
// predicate now holds. It never drops a held badge.
func CheckBadgeUnlock(p UserProgress) []string {
	return checkBadges(DefaultBadges, p)
}

func checkBadges(catalog []Badge, p UserProgress) []string {
	badges := slices.Clone(p.Badges)
	for _, b := range catalog {
		if b.Unlock(p) {
			badges = append(badges, b.ID)
		}
	}
	return normalizeBadges(badges)
}

func BadgeByID(id string) (Badge, bool) {
	for _, b := range DefaultBadges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// newlyUnlocked lists ids present in after but not in before. Both are sorted.
func newlyUnlocked(before, after []string) []string {
	added := []string{}
	for _, id := range after {
		if _, found := slices.BinarySearch(before, id); !found {
			added = append(added, id)
		}
	}
	return added
}

func normalizeBadges(badges []string) []string {
	if len(badges) == 0 {
		return []string{}
	}
	out := slices.DeleteFunc(slices.Clone(badges), func(id string) bool { return id == "" })
	slices.Sort(out)
	return slices.Compact(out)
}
