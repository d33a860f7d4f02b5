package activity

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	lru "github.com/hashicorp/golang-lru"
)

const defaultPersistTimeout = 5 * time.Second

type userWindow struct {
	mu      sync.Mutex
	records []Record // oldest first
}

// Log is the append-only activity history. Records are staged into a bounded
// in-memory window per user first (that order is authoritative for display)
// and persisted afterwards.
type Log struct {
	repo    Repository
	windows *lru.Cache
	perUser int
	timeout time.Duration
	now     func() time.Time

	idMu   sync.Mutex
	lastID snowflake.ID
}

func NewLog(repo Repository, users, perUser int) (*Log, error) {
	windows, err := lru.New(users)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity cache: %w", err)
	}
	return &Log{
		repo:    repo,
		windows: windows,
		perUser: perUser,
		timeout: defaultPersistTimeout,
		now:     time.Now,
	}, nil
}

func (l *Log) nextID(ts time.Time) snowflake.ID {
	l.idMu.Lock()
	defer l.idMu.Unlock()

	id := snowflake.New(ts)
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Log) window(userID string) *userWindow {
	if w, ok := l.windows.Get(userID); ok {
		return w.(*userWindow)
	}
	w := &userWindow{}
	if existed, _ := l.windows.ContainsOrAdd(userID, w); existed {
		if current, ok := l.windows.Get(userID); ok {
			return current.(*userWindow)
		}
	}
	return w
}

// Stage assigns the record its id and timestamp and adds it to the user's
// in-memory window. It does no I/O.
func (l *Log) Stage(userID string, t Type, title string, xpEarned int) Record {
	ts := l.now().UTC()
	rec := Record{
		ID:        l.nextID(ts),
		UserID:    userID,
		Type:      t,
		Title:     title,
		XPEarned:  max(xpEarned, 0),
		Timestamp: ts,
	}

	w := l.window(userID)
	w.mu.Lock()
	w.records = append(w.records, rec)
	if over := len(w.records) - l.perUser; over > 0 {
		w.records = slices.Delete(w.records, 0, over)
	}
	w.mu.Unlock()

	return rec
}

// Persist writes a staged record to the repository. Failures are logged and
// returned; the staged copy stays visible either way.
func (l *Log) Persist(ctx context.Context, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.repo.Insert(ctx, toModel(rec)); err != nil {
		slog.Warn("Failed to persist activity record",
			slog.String("type", "db"),
			slog.String("user_id", rec.UserID),
			slog.String("activity", string(rec.Type)),
			slog.Any("error", err))
		return fmt.Errorf("failed to persist activity: %w", err)
	}
	return nil
}

// Append stages and persists in one call.
func (l *Log) Append(ctx context.Context, userID string, t Type, title string, xpEarned int) (Record, error) {
	if !t.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	rec := l.Stage(userID, t, title, xpEarned)
	return rec, l.Persist(ctx, rec)
}

// Recent returns up to limit records, newest first. Stored and staged records
// are merged so entries whose persistence is still pending or failed are
// included. If the repository is unavailable the in-memory window is used.
func (l *Log) Recent(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	stored, err := l.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		slog.Warn("Failed to read activity history, using in-memory records",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	records := l.merge(userID, stored, func(Record) bool { return true })
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Since returns every record at or after since, newest first, merged with the
// in-memory window the same way Recent is.
func (l *Log) Since(ctx context.Context, userID string, since time.Time) ([]Record, error) {
	stored, err := l.repo.ListSince(ctx, userID, since)
	if err != nil {
		slog.Warn("Failed to read activity history, using in-memory records",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	return l.merge(userID, stored, func(rec Record) bool {
		return !rec.Timestamp.Before(since)
	}), nil
}

func (l *Log) merge(userID string, stored []*models.Activity, keep func(Record) bool) []Record {
	byID := make(map[snowflake.ID]Record, len(stored))
	for _, m := range stored {
		rec := fromModel(m)
		byID[rec.ID] = rec
	}

	if w, ok := l.windows.Get(userID); ok {
		w := w.(*userWindow)
		w.mu.Lock()
		for _, rec := range w.records {
			if keep(rec) {
				byID[rec.ID] = rec
			}
		}
		w.mu.Unlock()
	}

	records := make([]Record, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return records
}

// Clear drops the user's history, used by a progress reset.
func (l *Log) Clear(ctx context.Context, userID string) error {
	l.windows.Remove(userID)
	if err := l.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear activity history: %w", err)
	}
	return nil
}
