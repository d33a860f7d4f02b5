package catalog

import (
	"context"
	"testing"
	"testing/fstest"
)

const storiesJSON = `[
  {
    "id": "first-date",
    "title": {"en": "First date", "es": "Primera cita"},
    "chapters": [
      {"id": 1, "content": "You meet Sam.", "choices": [
        {"text": "Ask about boundaries", "nextChapter": 2, "xp": 20, "feedback": "Great start"},
        {"text": "Assume", "nextChapter": 1, "xp": 0}
      ]},
      {"id": 2, "content": "Sam appreciates it.", "choices": [
        {"text": "Finish", "nextChapter": -1, "xp": 30}
      ]}
    ]
  },
  {"id": "broken", "title": "Broken", "chapters": [{"id": 1, "content": "x", "choices": []}]},
  "not an object"
]`

const rewardsJSON = `[
  {"id": "coupon-10", "title": "10% pharmacy coupon", "type": "coupon", "requiredLevel": 2, "totalAvailable": 5},
  {"id": "mentor-chat", "title": "Mentor chat", "type": "mentor", "requiredLevel": 5, "requiredBadges": ["knowledge-seeker"]}
]`

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		StoriesFile: {Data: []byte(storiesJSON)},
		RewardsFile: {Data: []byte(rewardsJSON)},
		ReelsFile:   {Data: []byte(`[{"id": "reel-1", "title": "Condoms 101", "xp": 10, "tags": ["contraception"]}]`)},
	}

	c, err := Load(context.Background(), NewDirSource(fsys, "test"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(c.Stories) != 1 || c.Stories[0].ID != "first-date" {
		t.Fatalf("Stories = %+v, want only first-date", c.Stories)
	}
	if got := c.Stories[0].Title.Get("es"); got != "Primera cita" {
		t.Errorf("localized title = %q", got)
	}
	if got := c.Stories[0].Chapters[0].Content.Get("en"); got != "You meet Sam." {
		t.Errorf("plain string content = %q", got)
	}
	if len(c.Rewards) != 2 {
		t.Errorf("len(Rewards) = %d, want 2", len(c.Rewards))
	}
	if r, ok := c.Reward("coupon-10"); !ok || r.TotalAvailable == nil || *r.TotalAvailable != 5 {
		t.Errorf("Reward(coupon-10) = %+v", r)
	}
	if len(c.Quizzes) != 0 {
		t.Errorf("missing quizzes file should give empty section, got %d", len(c.Quizzes))
	}
	// one malformed entry, one story failing validation
	if len(c.Problems) != 2 {
		t.Errorf("len(Problems) = %d, want 2: %v", len(c.Problems), c.Problems)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	fsys := fstest.MapFS{
		QuizzesFile: {Data: []byte(`{"not": "an array"}`)},
	}

	if _, err := Load(context.Background(), NewDirSource(fsys, "test")); err == nil {
		t.Fatal("Load() expected error for non-array file")
	}
}
