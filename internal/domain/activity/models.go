package activity

import (
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Type string

const (
	TypeQuiz     Type = "quiz"
	TypeStory    Type = "story"
	TypeReel     Type = "reel"
	TypeQuestion Type = "question"
)

func (t Type) Valid() bool {
	switch t {
	case TypeQuiz, TypeStory, TypeReel, TypeQuestion:
		return true
	}
	return false
}

var (
	ErrInvalidLimit = errors.New("limit must be greater than zero")
	ErrInvalidType  = errors.New("unknown activity type")
)

// Record is immutable once staged. IDs are snowflakes issued in acceptance
// order, so sorting by ID gives the order mutations were accepted in.
type Record struct {
	ID        snowflake.ID `json:"id"`
	UserID    string       `json:"userId"`
	Type      Type         `json:"activityType"`
	Title     string       `json:"title"`
	XPEarned  int          `json:"xpEarned"`
	Timestamp time.Time    `json:"timestamp"`
}
