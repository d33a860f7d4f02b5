package progress

import (
	"context"
	"log/slog"

	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
)

const XPPerLevel = 500

// LevelFromXP maps total XP to a level: floor(xp/500)+1. Callers guarantee
// xp >= 0.
func LevelFromXP(xp int) int {
	return xp/XPPerLevel + 1
}

// Recorder receives activity for every scoring mutation. Stage runs inside
// the user's critical section so staged order matches acceptance order;
// Persist runs after the mutation has committed.
type Recorder interface {
	Stage(userID string, t activity.Type, title string, xpEarned int) activity.Record
	Persist(ctx context.Context, rec activity.Record) error
	Clear(ctx context.Context, userID string) error
}

// Award is a single scoring event. Completed marks a finished item and bumps
// the category counter; story choices mid-way through award XP without it.
// Step marks one move through multi-part content, which is logged even when
// it is worth no XP.
type Award struct {
	Category     Category
	Amount       int
	Completed    bool
	Step         bool
	ActivityType activity.Type
	Title        string
}

type Engine struct {
	store    *Store
	recorder Recorder
	badges   []Badge
}

func NewEngine(store *Store, recorder Recorder) *Engine {
	return &Engine{
		store:    store,
		recorder: recorder,
		badges:   DefaultBadges,
	}
}

func (e *Engine) Store() *Store {
	return e.store
}

// AddPoints credits amount to the category pool, counts one completed item
// and re-evaluates badges. amount must be positive.
func (e *Engine) AddPoints(ctx context.Context, userID string, category Category, amount int) (*AwardResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return e.Apply(ctx, userID, Award{
		Category:  category,
		Amount:    amount,
		Completed: true,
	})
}

// Apply runs one award. A zero amount is only accepted for a completion or a
// step.
func (e *Engine) Apply(ctx context.Context, userID string, award Award) (*AwardResult, error) {
	if !award.Category.Valid() {
		return nil, ErrUnknownCategory
	}
	if award.Amount < 0 || (award.Amount == 0 && !award.Completed && !award.Step) {
		return nil, ErrInvalidAmount
	}
	if award.ActivityType == "" {
		award.ActivityType = activityTypeFor(award.Category)
	}
	if award.Title == "" {
		award.Title = defaultTitle(award.Category)
	}

	result := &AwardResult{XPGained: award.Amount}
	var staged *activity.Record

	snapshot, err := e.store.Update(ctx, userID, func(p *UserProgress) error {
		p.Normalize()
		result.PreviousLevel = p.Level
		before := p.Badges

		p.addPoints(award.Category, award.Amount)
		if award.Completed {
			p.incrementCount(award.Category)
		}
		p.Normalize()
		p.Badges = checkBadges(e.badges, *p)
		result.NewBadges = newlyUnlocked(before, p.Badges)

		if e.recorder != nil {
			rec := e.recorder.Stage(userID, award.ActivityType, award.Title, award.Amount)
			staged = &rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Progress = snapshot
	result.LeveledUp = snapshot.Level > result.PreviousLevel

	if staged != nil {
		// scoring already committed; a lost activity record is tolerated
		_ = e.recorder.Persist(ctx, *staged)
	}

	return result, nil
}

// Reset rewrites the user's progress to defaults and clears their history.
func (e *Engine) Reset(ctx context.Context, userID string) (UserProgress, error) {
	snapshot, err := e.store.Reset(ctx, userID)
	if err != nil {
		return snapshot, err
	}
	if e.recorder != nil {
		if err := e.recorder.Clear(ctx, userID); err != nil {
			slog.Warn("Failed to clear activity history on reset",
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
	}
	return snapshot, nil
}

func activityTypeFor(c Category) activity.Type {
	switch c {
	case CategoryReels:
		return activity.TypeReel
	case CategoryQuiz:
		return activity.TypeQuiz
	default:
		return activity.TypeStory
	}
}

func defaultTitle(c Category) string {
	switch c {
	case CategoryReels:
		return "Reel watched"
	case CategoryQuiz:
		return "Quiz completed"
	default:
		return "Story progress"
	}
}
