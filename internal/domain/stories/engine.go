package stories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	lru "github.com/hashicorp/golang-lru"
)

const DefaultSessionCacheSize = 4096

type Catalog interface {
	Story(id string) (*catalog.Story, bool)
}

type Awarder interface {
	Apply(ctx context.Context, userID string, award progress.Award) (*progress.AwardResult, error)
}

// Engine walks readers through story graphs one choice at a time. It never
// walks the graph on its own, so cycles only repeat when the reader does.
type Engine struct {
	catalog  Catalog
	awarder  Awarder
	sessions *lru.Cache
	locks    *utils.KeyedMutex
	now      func() time.Time
}

func NewEngine(cat Catalog, awarder Awarder, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultSessionCacheSize
	}
	sessions, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Engine{
		catalog:  cat,
		awarder:  awarder,
		sessions: sessions,
		locks:    utils.NewKeyedMutex(),
		now:      time.Now,
	}, nil
}

func sessionKey(userID, storyID string) string {
	return userID + "\x00" + storyID
}

// Start (re)opens the story at its first chapter. Finished stories can be
// started again and their choices award XP again.
func (e *Engine) Start(userID, storyID string) (*Position, error) {
	story, ok := e.catalog.Story(storyID)
	if !ok {
		return nil, ErrStoryNotFound
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	sess := e.startLocked(userID, story)
	return &Position{Session: sess, Chapter: story.FirstChapter()}, nil
}

func (e *Engine) startLocked(userID string, story *catalog.Story) Session {
	sess := Session{
		UserID:    userID,
		StoryID:   story.ID,
		ChapterID: story.FirstChapter().ID,
		StartedAt: e.now().UTC(),
	}
	e.sessions.Add(sessionKey(userID, story.ID), sess)
	return sess
}

// Current returns where the reader is, starting the story if they have no
// session yet.
func (e *Engine) Current(userID, storyID string) (*Position, error) {
	story, ok := e.catalog.Story(storyID)
	if !ok {
		return nil, ErrStoryNotFound
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	sess := e.sessionLocked(userID, story)
	return positionOf(story, sess), nil
}

func (e *Engine) sessionLocked(userID string, story *catalog.Story) Session {
	if v, ok := e.sessions.Get(sessionKey(userID, story.ID)); ok {
		sess := v.(Session)
		if sess.Finished {
			return sess
		}
		if _, ok := story.Chapter(sess.ChapterID); ok {
			return sess
		}
		slog.Warn("Story session points at a missing chapter, restarting",
			slog.String("user_id", userID),
			slog.String("story_id", story.ID),
			slog.Int("chapter", sess.ChapterID))
	}
	return e.startLocked(userID, story)
}

func positionOf(story *catalog.Story, sess Session) *Position {
	pos := &Position{Session: sess}
	if !sess.Finished {
		pos.Chapter, _ = story.Chapter(sess.ChapterID)
	}
	return pos
}

// SelectChoice takes exactly one edge from the current chapter and awards its
// XP to the stories category. Every choice logs a story activity, including
// ones worth no XP. Taking a terminal edge also counts the story as read. The
// session only advances once the award has been accepted.
func (e *Engine) SelectChoice(ctx context.Context, userID, storyID string, choiceIndex int) (*Transition, error) {
	story, ok := e.catalog.Story(storyID)
	if !ok {
		return nil, ErrStoryNotFound
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	sess := e.sessionLocked(userID, story)
	if sess.Finished {
		return nil, ErrStoryFinished
	}

	chapter, _ := story.Chapter(sess.ChapterID)
	if choiceIndex < 0 || choiceIndex >= len(chapter.Choices) {
		return nil, fmt.Errorf("%w: chapter %d has no choice %d", ErrInvalidChoice, chapter.ID, choiceIndex)
	}
	choice := chapter.Choices[choiceIndex]
	terminal := choice.NextChapter == catalog.TerminalChapter

	transition := &Transition{
		FromChapter: chapter.ID,
		ToChapter:   choice.NextChapter,
		Terminal:    terminal,
		XPAwarded:   choice.XP,
		Feedback:    choice.Feedback,
	}

	award, err := e.awarder.Apply(ctx, userID, progress.Award{
		Category:     progress.CategoryStories,
		Amount:       choice.XP,
		Completed:    terminal,
		Step:         true,
		ActivityType: activity.TypeStory,
		Title:        story.Title.Get("en"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to award story choice: %w", err)
	}
	transition.Award = award

	sess.Steps++
	sess.XPEarned += choice.XP
	if terminal {
		sess.Finished = true
	} else {
		sess.ChapterID = choice.NextChapter
	}
	e.sessions.Add(sessionKey(userID, storyID), sess)

	if terminal {
		slog.Info("Story finished",
			slog.String("user_id", userID),
			slog.String("story_id", storyID),
			slog.Int("steps", sess.Steps),
			slog.Int("xp", sess.XPEarned))
	}

	transition.Position = *positionOf(story, sess)
	return transition, nil
}

// Forget drops every cached session the user has for the given stories.
func (e *Engine) Forget(userID string, storyIDs ...string) {
	unlock := e.locks.Lock(userID)
	defer unlock()
	for _, id := range storyIDs {
		e.sessions.Remove(sessionKey(userID, id))
	}
}
