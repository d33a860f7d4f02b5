package catalog

import (
	"fmt"
	"log/slog"
)

// Catalog is the read-only content set. Invalid items never make it in; the
// reasons they were dropped are kept in Problems.
type Catalog struct {
	Quizzes       []Quiz
	Stories       []Story
	Reels         []Reel
	Rewards       []Reward
	HealthCenters []HealthCenter

	Problems []error

	quizzes map[string]*Quiz
	stories map[string]*Story
	reels   map[string]*Reel
	rewards map[string]*Reward
}

type Content struct {
	Quizzes       []Quiz
	Stories       []Story
	Reels         []Reel
	Rewards       []Reward
	HealthCenters []HealthCenter
}

// New validates every item and indexes the survivors. Items failing
// validation or repeating an earlier id are excluded and logged.
func New(content Content) *Catalog {
	c := &Catalog{}

	c.Quizzes = keepValid(c, "quiz", content.Quizzes, func(q Quiz) string { return q.ID }, ValidateQuiz)
	c.Stories = keepValid(c, "story", content.Stories, func(s Story) string { return s.ID }, ValidateStory)
	c.Reels = keepValid(c, "reel", content.Reels, func(r Reel) string { return r.ID }, ValidateReel)
	c.Rewards = keepValid(c, "reward", content.Rewards, func(r Reward) string { return r.ID }, ValidateReward)
	c.HealthCenters = keepValid(c, "health_center", content.HealthCenters, func(h HealthCenter) string { return h.ID }, ValidateHealthCenter)

	c.quizzes = index(c.Quizzes, func(q *Quiz) string { return q.ID })
	c.stories = index(c.Stories, func(s *Story) string { return s.ID })
	c.reels = index(c.Reels, func(r *Reel) string { return r.ID })
	c.rewards = index(c.Rewards, func(r *Reward) string { return r.ID })

	return c
}

func keepValid[T any](c *Catalog, kind string, items []T, id func(T) string, validate func(T) error) []T {
	kept := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		err := validate(item)
		if err == nil {
			if _, dup := seen[id(item)]; dup {
				err = fmt.Errorf("duplicate %s id %q", kind, id(item))
			}
		}
		if err != nil {
			c.Problems = append(c.Problems, err)
			slog.Error("Excluding invalid catalog item",
				slog.String("kind", kind),
				slog.String("id", id(item)),
				slog.Any("error", err))
			continue
		}
		seen[id(item)] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

func index[T any](items []T, id func(*T) string) map[string]*T {
	m := make(map[string]*T, len(items))
	for i := range items {
		m[id(&items[i])] = &items[i]
	}
	return m
}

func (c *Catalog) Quiz(id string) (*Quiz, bool) {
	q, ok := c.quizzes[id]
	return q, ok
}

func (c *Catalog) Story(id string) (*Story, bool) {
	s, ok := c.stories[id]
	return s, ok
}

func (c *Catalog) Reel(id string) (*Reel, bool) {
	r, ok := c.reels[id]
	return r, ok
}

func (c *Catalog) Reward(id string) (*Reward, bool) {
	r, ok := c.rewards[id]
	return r, ok
}

type Stats struct {
	Quizzes       int `json:"quizzes"`
	Stories       int `json:"stories"`
	Reels         int `json:"reels"`
	Rewards       int `json:"rewards"`
	HealthCenters int `json:"healthCenters"`
	Excluded      int `json:"excluded"`
}

func (c *Catalog) Stats() Stats {
	return Stats{
		Quizzes:       len(c.Quizzes),
		Stories:       len(c.Stories),
		Reels:         len(c.Reels),
		Rewards:       len(c.Rewards),
		HealthCenters: len(c.HealthCenters),
		Excluded:      len(c.Problems),
	}
}
