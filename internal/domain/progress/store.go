package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	lru "github.com/hashicorp/golang-lru"
)

// Notifier is told about every committed local mutation. Implementations must
// not block; the sync coordinator queues the snapshot for a background push.
type Notifier interface {
	Notify(userID string, snapshot UserProgress)
}

// Store owns the per-user progress snapshots. All writes for one user run in a
// critical section keyed by user id, so read-modify-write sequences never
// interleave.
type Store struct {
	repo     Repository
	cache    *lru.Cache
	locks    *utils.KeyedMutex
	notifier Notifier
	now      func() time.Time
}

func NewStore(repo Repository, cacheSize int) (*Store, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress cache: %w", err)
	}
	return &Store{
		repo:  repo,
		cache: cache,
		locks: utils.NewKeyedMutex(),
		now:   time.Now,
	}, nil
}

// SetNotifier must be called before the store serves traffic.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

// Load returns the user's snapshot, falling back to defaults when nothing is
// stored or the repository fails. It never returns an error.
func (s *Store) Load(ctx context.Context, userID string) UserProgress {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.loadLocked(ctx, userID).Clone()
}

func (s *Store) loadLocked(ctx context.Context, userID string) UserProgress {
	if cached, ok := s.cache.Get(userID); ok {
		return cached.(UserProgress)
	}

	stored, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		slog.Warn("Failed to load progress, using defaults",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		// not cached, the next load retries the repository
		return NewUserProgress(userID)
	}

	p := NewUserProgress(userID)
	if stored != nil {
		p = fromModel(stored)
	}
	s.cache.Add(userID, p)
	return p
}

// Update runs fn against a working copy of the snapshot. If fn fails nothing
// changes. Otherwise the derived fields are recomputed, the result is cached,
// persisted and announced to the notifier.
func (s *Store) Update(ctx context.Context, userID string, fn func(p *UserProgress) error) (UserProgress, error) {
	if userID == "" {
		return UserProgress{}, ErrMissingUserID
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	current := s.loadLocked(ctx, userID)
	working := current.Clone()
	if err := fn(&working); err != nil {
		return current.Clone(), err
	}

	working.UserID = userID
	working.Normalize()
	working.LastUpdated = s.now().UTC()
	s.commitLocked(ctx, working)

	if s.notifier != nil {
		s.notifier.Notify(userID, working.Clone())
	}
	return working.Clone(), nil
}

// Merge applies a partial update. TotalXP and Level cannot be set directly,
// pools and counters can only grow, and the default badges are re-evaluated
// against the merged values.
func (s *Store) Merge(ctx context.Context, userID string, patch Patch) (UserProgress, error) {
	if err := patch.validate(); err != nil {
		return UserProgress{}, err
	}
	return s.Update(ctx, userID, func(p *UserProgress) error {
		if err := patch.checkNotDecreasing(*p); err != nil {
			return err
		}
		patch.apply(p)
		p.Normalize()
		p.Badges = CheckBadgeUnlock(*p)
		return nil
	})
}

// Reset rewrites the snapshot to defaults.
func (s *Store) Reset(ctx context.Context, userID string) (UserProgress, error) {
	return s.Update(ctx, userID, func(p *UserProgress) error {
		*p = NewUserProgress(userID)
		return nil
	})
}

// Replace installs a snapshot that came from elsewhere (the remote copy) if it
// is newer than the local one. It does not notify, so a pulled snapshot is
// never pushed straight back. The returned snapshot is whatever is current
// afterwards.
func (s *Store) Replace(ctx context.Context, userID string, snapshot UserProgress) UserProgress {
	unlock := s.locks.Lock(userID)
	defer unlock()

	current := s.loadLocked(ctx, userID)
	if !snapshot.LastUpdated.After(current.LastUpdated) {
		return current.Clone()
	}

	replacement := snapshot.Clone()
	replacement.UserID = userID
	replacement.Normalize()
	s.commitLocked(ctx, replacement)
	return replacement.Clone()
}

// Evict drops the cached snapshot so the next load goes to the repository.
func (s *Store) Evict(userID string) {
	s.cache.Remove(userID)
}

func (s *Store) commitLocked(ctx context.Context, p UserProgress) {
	s.cache.Add(p.UserID, p)
	if err := s.repo.Upsert(ctx, toModel(p)); err != nil {
		slog.Warn("Failed to persist progress, keeping in-memory snapshot",
			slog.String("type", "db"),
			slog.String("user_id", p.UserID),
			slog.Any("error", err))
	}
}
