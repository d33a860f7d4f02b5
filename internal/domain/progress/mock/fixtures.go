package mock

import (
	"time"

	models "github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
)

var (
	StoredAt = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	// NearLevelTwo sits 10 XP under the first level boundary.
	NearLevelTwo = &models.UserProgress{
		UserID:           "near-level-two",
		QuizzesCompleted: 4,
		QuizPoints:       490,
		Badges:           []string{},
		LastUpdated:      StoredAt,
	}

	// FourReels is one reel short of reel-watcher.
	FourReels = &models.UserProgress{
		UserID:       "four-reels",
		ReelsWatched: 4,
		ReelsPoints:  40,
		Badges:       []string{},
		LastUpdated:  StoredAt,
	}

	// Stale has derived fields that disagree with its pools.
	Stale = &models.UserProgress{
		UserID:        "stale",
		TotalXP:       9999,
		Level:         42,
		StoriesRead:   1,
		StoriesPoints: 120,
		Badges:        []string{"story-explorer", "story-explorer"},
		LastUpdated:   StoredAt,
	}
)
