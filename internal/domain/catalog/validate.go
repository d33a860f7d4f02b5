package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStory  = errors.New("invalid story")
	ErrInvalidQuiz   = errors.New("invalid quiz")
	ErrInvalidReel   = errors.New("invalid reel")
	ErrInvalidReward = errors.New("invalid reward")
	ErrInvalidCenter = errors.New("invalid health center")
)

// ValidateStory checks the chapter graph is traversable: unique chapter ids,
// no dead-end chapters, and every non-terminal choice resolves in the same
// story. Cycles are allowed.
func ValidateStory(s Story) error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidStory)
	}
	if len(s.Chapters) == 0 {
		return fmt.Errorf("%w %q: no chapters", ErrInvalidStory, s.ID)
	}

	ids := make(map[int]struct{}, len(s.Chapters))
	for _, ch := range s.Chapters {
		if ch.ID == TerminalChapter {
			return fmt.Errorf("%w %q: chapter id %d is reserved", ErrInvalidStory, s.ID, TerminalChapter)
		}
		if _, dup := ids[ch.ID]; dup {
			return fmt.Errorf("%w %q: duplicate chapter %d", ErrInvalidStory, s.ID, ch.ID)
		}
		ids[ch.ID] = struct{}{}
	}

	for _, ch := range s.Chapters {
		if len(ch.Choices) == 0 {
			return fmt.Errorf("%w %q: chapter %d has no choices", ErrInvalidStory, s.ID, ch.ID)
		}
		for i, c := range ch.Choices {
			if c.XP < 0 {
				return fmt.Errorf("%w %q: chapter %d choice %d has negative xp", ErrInvalidStory, s.ID, ch.ID, i)
			}
			if c.NextChapter == TerminalChapter {
				continue
			}
			if _, ok := ids[c.NextChapter]; !ok {
				return fmt.Errorf("%w %q: chapter %d choice %d points to missing chapter %d",
					ErrInvalidStory, s.ID, ch.ID, i, c.NextChapter)
			}
		}
	}
	return nil
}

func ValidateQuiz(q Quiz) error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuiz)
	}
	if q.XP < 0 {
		return fmt.Errorf("%w %q: negative xp", ErrInvalidQuiz, q.ID)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w %q: no questions", ErrInvalidQuiz, q.ID)
	}
	for i, question := range q.Questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("%w %q: question %d needs at least two options", ErrInvalidQuiz, q.ID, i)
		}
		if question.Correct < 0 || question.Correct >= len(question.Options) {
			return fmt.Errorf("%w %q: question %d correct answer out of range", ErrInvalidQuiz, q.ID, i)
		}
	}
	return nil
}

func ValidateReel(r Reel) error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidReel)
	}
	if r.XP < 0 {
		return fmt.Errorf("%w %q: negative xp", ErrInvalidReel, r.ID)
	}
	return nil
}

func ValidateReward(r Reward) error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidReward)
	}
	switch r.Type {
	case RewardCoupon, RewardActivity, RewardMentor:
	default:
		return fmt.Errorf("%w %q: unknown type %q", ErrInvalidReward, r.ID, r.Type)
	}
	if r.RequiredLevel < 1 {
		return fmt.Errorf("%w %q: required level must be at least 1", ErrInvalidReward, r.ID)
	}
	if r.TotalAvailable != nil && *r.TotalAvailable < 0 {
		return fmt.Errorf("%w %q: negative total available", ErrInvalidReward, r.ID)
	}
	return nil
}

func ValidateHealthCenter(h HealthCenter) error {
	if h.ID == "" || h.Name == "" {
		return fmt.Errorf("%w: missing id or name", ErrInvalidCenter)
	}
	return nil
}
