package progress

import (
	"fmt"
	"slices"
	"time"
)

type Category string

const (
	CategoryReels   Category = "reels"
	CategoryQuiz    Category = "quiz"
	CategoryStories Category = "stories"
)

var Categories = []Category{CategoryReels, CategoryQuiz, CategoryStories}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryReels, CategoryQuiz, CategoryStories:
		return true
	}
	return false
}

// UserProgress is one user's progression snapshot. TotalXP and Level are
// always derived from the point pools; see Normalize.
type UserProgress struct {
	UserID           string    `json:"userId"`
	TotalXP          int       `json:"totalXP"`
	Level            int       `json:"level"`
	ReelsWatched     int       `json:"reelsWatched"`
	QuizzesCompleted int       `json:"quizzesCompleted"`
	StoriesRead      int       `json:"storiesRead"`
	ReelsPoints      int       `json:"reelsPoints"`
	QuizPoints       int       `json:"quizPoints"`
	StoriesPoints    int       `json:"storiesPoints"`
	Badges           []string  `json:"badges"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

func NewUserProgress(userID string) UserProgress {
	return UserProgress{
		UserID: userID,
		Level:  1,
		Badges: []string{},
	}
}

// Normalize recomputes the derived fields and canonicalizes the badge set.
func (p *UserProgress) Normalize() {
	p.TotalXP = p.ReelsPoints + p.QuizPoints + p.StoriesPoints
	p.Level = LevelFromXP(p.TotalXP)
	p.Badges = normalizeBadges(p.Badges)
}

func (p UserProgress) HasBadge(id string) bool {
	_, found := slices.BinarySearch(p.Badges, id)
	return found
}

// Clone returns a copy that shares no memory with p.
func (p UserProgress) Clone() UserProgress {
	p.Badges = slices.Clone(p.Badges)
	if p.Badges == nil {
		p.Badges = []string{}
	}
	return p
}

func (p UserProgress) Points(c Category) int {
	switch c {
	case CategoryReels:
		return p.ReelsPoints
	case CategoryQuiz:
		return p.QuizPoints
	case CategoryStories:
		return p.StoriesPoints
	}
	return 0
}

func (p UserProgress) Count(c Category) int {
	switch c {
	case CategoryReels:
		return p.ReelsWatched
	case CategoryQuiz:
		return p.QuizzesCompleted
	case CategoryStories:
		return p.StoriesRead
	}
	return 0
}

func (p *UserProgress) addPoints(c Category, amount int) {
	switch c {
	case CategoryReels:
		p.ReelsPoints += amount
	case CategoryQuiz:
		p.QuizPoints += amount
	case CategoryStories:
		p.StoriesPoints += amount
	}
}

func (p *UserProgress) incrementCount(c Category) {
	switch c {
	case CategoryReels:
		p.ReelsWatched++
	case CategoryQuiz:
		p.QuizzesCompleted++
	case CategoryStories:
		p.StoriesRead++
	}
}

// Patch is a partial update. Nil fields are left untouched. TotalXP and Level
// are absent on purpose: they are always recomputed.
type Patch struct {
	ReelsWatched     *int     `json:"reelsWatched,omitempty"`
	QuizzesCompleted *int     `json:"quizzesCompleted,omitempty"`
	StoriesRead      *int     `json:"storiesRead,omitempty"`
	ReelsPoints      *int     `json:"reelsPoints,omitempty"`
	QuizPoints       *int     `json:"quizPoints,omitempty"`
	StoriesPoints    *int     `json:"storiesPoints,omitempty"`
	Badges           []string `json:"badges,omitempty"`
}

func (p Patch) validate() error {
	fields := map[string]*int{
		"reelsWatched":     p.ReelsWatched,
		"quizzesCompleted": p.QuizzesCompleted,
		"storiesRead":      p.StoriesRead,
		"reelsPoints":      p.ReelsPoints,
		"quizPoints":       p.QuizPoints,
		"storiesPoints":    p.StoriesPoints,
	}
	for name, v := range fields {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeField, name)
		}
	}
	return nil
}

// checkNotDecreasing rejects a patch that would lower a pool or counter below
// its current value. Only Reset goes back to zero.
func (p Patch) checkNotDecreasing(current UserProgress) error {
	fields := []struct {
		name    string
		patched *int
		current int
	}{
		{"reelsWatched", p.ReelsWatched, current.ReelsWatched},
		{"quizzesCompleted", p.QuizzesCompleted, current.QuizzesCompleted},
		{"storiesRead", p.StoriesRead, current.StoriesRead},
		{"reelsPoints", p.ReelsPoints, current.ReelsPoints},
		{"quizPoints", p.QuizPoints, current.QuizPoints},
		{"storiesPoints", p.StoriesPoints, current.StoriesPoints},
	}
	for _, f := range fields {
		if f.patched != nil && *f.patched < f.current {
			return fmt.Errorf("%w: %s %d is below %d", ErrDecreasingField, f.name, *f.patched, f.current)
		}
	}
	return nil
}

func (p Patch) apply(up *UserProgress) {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&up.ReelsWatched, p.ReelsWatched)
	set(&up.QuizzesCompleted, p.QuizzesCompleted)
	set(&up.StoriesRead, p.StoriesRead)
	set(&up.ReelsPoints, p.ReelsPoints)
	set(&up.QuizPoints, p.QuizPoints)
	set(&up.StoriesPoints, p.StoriesPoints)
	// badges are permanent, a patch can only add
	up.Badges = append(up.Badges, p.Badges...)
}

// AwardResult describes the outcome of one scoring mutation.
type AwardResult struct {
	Progress      UserProgress `json:"progress"`
	XPGained      int          `json:"xpGained"`
	PreviousLevel int          `json:"previousLevel"`
	LeveledUp     bool         `json:"leveledUp"`
	NewBadges     []string     `json:"newBadges"`
}
