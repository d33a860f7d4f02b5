package stories

import (
	"context"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/ellavondegurechaff/healthquest/internal/domain/stories/mock"
	"go.uber.org/mock/gomock"
)

// loopStory: chapter 1 offers a bad choice to chapter 4, which loops back to
// chapter 1. The good path ends the story.
func loopStory() catalog.Story {
	return catalog.Story{
		ID:    "first-date",
		Title: catalog.LocalizedText{"en": "First date"},
		Chapters: []catalog.Chapter{
			{ID: 1, Content: catalog.LocalizedText{"en": "Start"}, Choices: []catalog.Choice{
				{Text: catalog.LocalizedText{"en": "Talk about boundaries"}, NextChapter: 2, XP: 20},
				{Text: catalog.LocalizedText{"en": "Ignore it"}, NextChapter: 4, XP: 5, Feedback: catalog.LocalizedText{"en": "Try again"}},
			}},
			{ID: 2, Content: catalog.LocalizedText{"en": "Good talk"}, Choices: []catalog.Choice{
				{Text: catalog.LocalizedText{"en": "Finish"}, NextChapter: catalog.TerminalChapter, XP: 30},
				{Text: catalog.LocalizedText{"en": "Just listen"}, NextChapter: 3, XP: 0},
			}},
			{ID: 3, Content: catalog.LocalizedText{"en": "Listening"}, Choices: []catalog.Choice{
				{Text: catalog.LocalizedText{"en": "Finish"}, NextChapter: catalog.TerminalChapter, XP: 0},
			}},
			{ID: 4, Content: catalog.LocalizedText{"en": "Awkward"}, Choices: []catalog.Choice{
				{Text: catalog.LocalizedText{"en": "Start over"}, NextChapter: 1, XP: 0},
			}},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *mock.MockAwarder) {
	t.Helper()
	cat := catalog.New(catalog.Content{Stories: []catalog.Story{loopStory()}})
	awarder := mock.NewMockAwarder(gomock.NewController(t))
	e, err := NewEngine(cat, awarder, 16)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, awarder
}

func storyAward(amount int, completed bool) progress.Award {
	return progress.Award{
		Category:     progress.CategoryStories,
		Amount:       amount,
		Completed:    completed,
		Step:         true,
		ActivityType: activity.TypeStory,
		Title:        "First date",
	}
}

func TestEngine_StartAndCurrent(t *testing.T) {
	e, _ := newTestEngine(t)

	pos, err := e.Current("u1", "first-date")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if pos.Session.ChapterID != 1 || pos.Chapter == nil || pos.Chapter.ID != 1 {
		t.Errorf("Current() without a session = %+v, want chapter 1", pos)
	}

	if _, err := e.Start("u1", "missing"); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("Start(missing) error = %v, want ErrStoryNotFound", err)
	}
	if _, err := e.Current("u1", "missing"); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("Current(missing) error = %v, want ErrStoryNotFound", err)
	}
}

// Each selection is exactly one edge and one award, even on a cycle.
func TestEngine_SelectChoice_CycleAdvancesOneEdge(t *testing.T) {
	e, awarder := newTestEngine(t)
	ctx := context.Background()

	gomock.InOrder(
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(5, false)).Return(&progress.AwardResult{XPGained: 5}, nil),
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(0, false)).Return(&progress.AwardResult{}, nil),
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(5, false)).Return(&progress.AwardResult{XPGained: 5}, nil),
	)

	steps := []struct {
		choice   int
		from, to int
	}{
		{choice: 1, from: 1, to: 4},
		{choice: 0, from: 4, to: 1},
		{choice: 1, from: 1, to: 4},
	}
	for i, s := range steps {
		tr, err := e.SelectChoice(ctx, "u1", "first-date", s.choice)
		if err != nil {
			t.Fatalf("step %d: SelectChoice() error = %v", i, err)
		}
		if tr.FromChapter != s.from || tr.ToChapter != s.to || tr.Terminal {
			t.Errorf("step %d: transition = %+v, want %d -> %d", i, tr, s.from, s.to)
		}
		if tr.Position.Session.ChapterID != s.to || tr.Position.Chapter.ID != s.to {
			t.Errorf("step %d: position = %+v", i, tr.Position)
		}
	}

	pos, _ := e.Current("u1", "first-date")
	if pos.Session.Steps != 3 || pos.Session.XPEarned != 10 {
		t.Errorf("session = %+v, want 3 steps and 10 xp", pos.Session)
	}
}

func TestEngine_SelectChoice_Terminal(t *testing.T) {
	e, awarder := newTestEngine(t)
	ctx := context.Background()

	gomock.InOrder(
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(20, false)).Return(&progress.AwardResult{}, nil),
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(30, true)).Return(&progress.AwardResult{XPGained: 30}, nil),
	)

	if _, err := e.SelectChoice(ctx, "u1", "first-date", 0); err != nil {
		t.Fatalf("SelectChoice() error = %v", err)
	}
	tr, err := e.SelectChoice(ctx, "u1", "first-date", 0)
	if err != nil {
		t.Fatalf("SelectChoice() error = %v", err)
	}
	if !tr.Terminal || tr.ToChapter != catalog.TerminalChapter || tr.XPAwarded != 30 {
		t.Errorf("transition = %+v, want terminal with 30 xp", tr)
	}
	if !tr.Position.Session.Finished || tr.Position.Chapter != nil {
		t.Errorf("position = %+v, want finished", tr.Position)
	}

	if _, err := e.SelectChoice(ctx, "u1", "first-date", 0); !errors.Is(err, ErrStoryFinished) {
		t.Errorf("SelectChoice() after finish error = %v, want ErrStoryFinished", err)
	}
}

// Replays start over and award XP again.
func TestEngine_Replay(t *testing.T) {
	e, awarder := newTestEngine(t)
	ctx := context.Background()

	awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(20, false)).Return(&progress.AwardResult{}, nil).Times(2)
	awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(30, true)).Return(&progress.AwardResult{}, nil).Times(2)

	for round := 0; round < 2; round++ {
		if round > 0 {
			pos, err := e.Start("u1", "first-date")
			if err != nil || pos.Session.Finished || pos.Session.ChapterID != 1 {
				t.Fatalf("Start() = %+v, %v", pos, err)
			}
		}
		for _, c := range []int{0, 0} {
			if _, err := e.SelectChoice(ctx, "u1", "first-date", c); err != nil {
				t.Fatalf("round %d: SelectChoice() error = %v", round, err)
			}
		}
	}
}

// Zero-xp steps still reach the scoring engine so the step is logged.
func TestEngine_SelectChoice_ZeroXP(t *testing.T) {
	e, awarder := newTestEngine(t)
	ctx := context.Background()

	gomock.InOrder(
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(20, false)).Return(&progress.AwardResult{}, nil),
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(0, false)).Return(&progress.AwardResult{}, nil),
		awarder.EXPECT().Apply(gomock.Any(), "u1", storyAward(0, true)).Return(&progress.AwardResult{}, nil),
	)

	for _, c := range []int{0, 1, 0} {
		if _, err := e.SelectChoice(ctx, "u1", "first-date", c); err != nil {
			t.Fatalf("SelectChoice(%d) error = %v", c, err)
		}
	}
}

func TestEngine_SelectChoice_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		storyID string
		choice  int
		wantErr error
	}{
		{name: "unknown story", storyID: "nope", choice: 0, wantErr: ErrStoryNotFound},
		{name: "negative index", storyID: "first-date", choice: -1, wantErr: ErrInvalidChoice},
		{name: "index past end", storyID: "first-date", choice: 2, wantErr: ErrInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			_, err := e.SelectChoice(context.Background(), "u1", tt.storyID, tt.choice)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SelectChoice() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_SelectChoice_AwardFailureKeepsPosition(t *testing.T) {
	e, awarder := newTestEngine(t)
	ctx := context.Background()

	awarder.EXPECT().Apply(gomock.Any(), "u1", gomock.Any()).Return(nil, errors.New("store down"))

	if _, err := e.SelectChoice(ctx, "u1", "first-date", 0); err == nil {
		t.Fatal("SelectChoice() expected error")
	}
	pos, _ := e.Current("u1", "first-date")
	if pos.Session.ChapterID != 1 || pos.Session.Steps != 0 {
		t.Errorf("session advanced after failed award: %+v", pos.Session)
	}
}

func TestEngine_Forget(t *testing.T) {
	e, awarder := newTestEngine(t)
	awarder.EXPECT().Apply(gomock.Any(), "u1", gomock.Any()).Return(&progress.AwardResult{}, nil)

	if _, err := e.SelectChoice(context.Background(), "u1", "first-date", 0); err != nil {
		t.Fatalf("SelectChoice() error = %v", err)
	}
	e.Forget("u1", "first-date")

	pos, _ := e.Current("u1", "first-date")
	if pos.Session.ChapterID != 1 || pos.Session.Steps != 0 {
		t.Errorf("Current() after Forget = %+v, want fresh session", pos.Session)
	}
}
