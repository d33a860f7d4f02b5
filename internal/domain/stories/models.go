package stories

import (
	"errors"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrStoryFinished = errors.New("story already finished")
)

// Session is one reader's position inside one story.
type Session struct {
	UserID    string    `json:"userId"`
	StoryID   string    `json:"storyId"`
	ChapterID int       `json:"chapterId"`
	Finished  bool      `json:"finished"`
	Steps     int       `json:"steps"`
	XPEarned  int       `json:"xpEarned"`
	StartedAt time.Time `json:"startedAt"`
}

// Position is a session together with the chapter to render. Chapter is nil
// once the story is finished.
type Position struct {
	Session Session          `json:"session"`
	Chapter *catalog.Chapter `json:"chapter,omitempty"`
}

// Transition describes exactly one edge taken through the chapter graph.
type Transition struct {
	FromChapter int                   `json:"fromChapter"`
	ToChapter   int                   `json:"toChapter"`
	Terminal    bool                  `json:"terminal"`
	XPAwarded   int                   `json:"xpAwarded"`
	Feedback    catalog.LocalizedText `json:"feedback,omitempty"`
	Award       *progress.AwardResult `json:"award,omitempty"`
	Position    Position              `json:"position"`
}
