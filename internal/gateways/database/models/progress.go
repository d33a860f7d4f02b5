package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`

	UserID           string    `bun:"user_id,pk"`
	TotalXP          int       `bun:"total_xp,notnull,default:0"`
	Level            int       `bun:"level,notnull,default:1"`
	ReelsWatched     int       `bun:"reels_watched,notnull,default:0"`
	QuizzesCompleted int       `bun:"quizzes_completed,notnull,default:0"`
	StoriesRead      int       `bun:"stories_read,notnull,default:0"`
	ReelsPoints      int       `bun:"reels_points,notnull,default:0"`
	QuizPoints       int       `bun:"quiz_points,notnull,default:0"`
	StoriesPoints    int       `bun:"stories_points,notnull,default:0"`
	Badges           []string  `bun:"badges,array"`
	LastUpdated      time.Time `bun:"last_updated,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
