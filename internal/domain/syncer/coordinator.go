package syncer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/logger"
	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultInterval    = 30 * time.Second
	DefaultTimeout     = 5 * time.Second
	DefaultMaxParallel = 8

	pushProcess     = "sync-push"
	intervalProcess = "sync-interval"
)

// RemoteStore is the hosted copy of each user's progress. Pull returns nil
// and no error when the user has never been pushed.
type RemoteStore interface {
	Pull(ctx context.Context, userID string) (*progress.UserProgress, error)
	Push(ctx context.Context, snapshot progress.UserProgress) error
}

// LocalStore is satisfied by *progress.Store.
type LocalStore interface {
	Load(ctx context.Context, userID string) progress.UserProgress
	Replace(ctx context.Context, userID string, snapshot progress.UserProgress) progress.UserProgress
}

type Config struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxParallel int
}

// Coordinator keeps local progress and the remote copy in step: on session
// open, on a fixed interval for open sessions, and after every local
// mutation. Conflicts resolve last-writer-wins on LastUpdated. Remote
// failures never reach callers; local state keeps serving.
type Coordinator struct {
	remote RemoteStore
	local  LocalStore
	cfg    Config
	bpm    *utils.BackgroundProcessManager

	mu       sync.Mutex
	sessions map[string]time.Time
	pending  map[string]progress.UserProgress
	wake     chan struct{}
}

func NewCoordinator(remote RemoteStore, local LocalStore, cfg Config, bpm *utils.BackgroundProcessManager) *Coordinator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}
	return &Coordinator{
		remote:   remote,
		local:    local,
		cfg:      cfg,
		bpm:      bpm,
		sessions: make(map[string]time.Time),
		pending:  make(map[string]progress.UserProgress),
		wake:     make(chan struct{}, 1),
	}
}

func (c *Coordinator) pull(ctx context.Context, userID string) (*progress.UserProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return c.remote.Pull(ctx, userID)
}

// Pull fetches the remote snapshot, or nil if there is none or it could not
// be read.
func (c *Coordinator) Pull(ctx context.Context, userID string) *progress.UserProgress {
	remote, err := c.pull(ctx, userID)
	if err != nil {
		slog.Warn("Failed to pull remote progress",
			slog.String("type", "sync"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil
	}
	return remote
}

// Push writes the snapshot remotely and reports whether it landed.
func (c *Coordinator) Push(ctx context.Context, snapshot progress.UserProgress) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.remote.Push(ctx, snapshot); err != nil {
		slog.Warn("Failed to push progress",
			slog.String("type", "sync"),
			slog.String("user_id", snapshot.UserID),
			slog.Any("error", err))
		return false
	}
	return true
}

// Reconcile picks the winner between local and the remote copy. A newer
// remote replaces local state; otherwise local is pushed. When the remote
// cannot be read, local is returned untouched and nothing is pushed.
func (c *Coordinator) Reconcile(ctx context.Context, userID string, local progress.UserProgress) progress.UserProgress {
	remote, err := c.pull(ctx, userID)
	if err != nil {
		slog.Warn("Remote unavailable, keeping local progress",
			slog.String("type", "sync"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return local
	}

	if remote != nil && remote.LastUpdated.After(local.LastUpdated) {
		slog.Debug("Remote progress is newer, replacing local",
			slog.String("type", "sync"),
			slog.String("user_id", userID))
		return c.local.Replace(ctx, userID, *remote)
	}

	c.Push(ctx, local)
	return local
}

// SyncUser reconciles the user's current local snapshot.
func (c *Coordinator) SyncUser(ctx context.Context, userID string) progress.UserProgress {
	return c.Reconcile(ctx, userID, c.local.Load(ctx, userID))
}

// Notify queues a snapshot for a background push. Only the latest snapshot per
// user is kept, and the caller never waits on the network.
func (c *Coordinator) Notify(userID string, snapshot progress.UserProgress) {
	c.mu.Lock()
	c.pending[userID] = snapshot
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) takePending() map[string]progress.UserProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	batch := c.pending
	c.pending = make(map[string]progress.UserProgress)
	return batch
}

// flush pushes the queued batch. Users that were never started, or whose
// push failed because ctx ended, go back on the queue for the next flush.
func (c *Coordinator) flush(ctx context.Context) {
	batch := c.takePending()
	if len(batch) == 0 {
		return
	}

	var mu sync.Mutex
	var cancelled []string
	skipped := c.fanOut(ctx, keys(batch), func(ctx context.Context, userID string) {
		if !c.Push(ctx, batch[userID]) && ctx.Err() != nil {
			mu.Lock()
			cancelled = append(cancelled, userID)
			mu.Unlock()
		}
	})
	c.requeue(batch, append(skipped, cancelled...))
}

// requeue puts snapshots back unless a newer one was queued meanwhile.
func (c *Coordinator) requeue(batch map[string]progress.UserProgress, users []string) {
	if len(users) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, userID := range users {
		if _, queued := c.pending[userID]; !queued {
			c.pending[userID] = batch[userID]
		}
	}
	logger.LogSync("Requeued unsent progress pushes", slog.Int("users", len(users)))
}

func (c *Coordinator) runPushQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
			c.flush(ctx)
		}
	}
}

// OpenSession reconciles the user and keeps them in the interval sync until
// CloseSession.
func (c *Coordinator) OpenSession(ctx context.Context, userID string) progress.UserProgress {
	c.mu.Lock()
	if _, ok := c.sessions[userID]; !ok {
		c.sessions[userID] = time.Now()
	}
	c.mu.Unlock()

	return c.SyncUser(ctx, userID)
}

// CloseSession stops interval sync for the user after one final push.
func (c *Coordinator) CloseSession(ctx context.Context, userID string) bool {
	c.mu.Lock()
	delete(c.sessions, userID)
	delete(c.pending, userID)
	c.mu.Unlock()

	return c.Push(ctx, c.local.Load(ctx, userID))
}

// Sessions lists users with an open session.
func (c *Coordinator) Sessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return keys(c.sessions)
}

func (c *Coordinator) reconcileSessions(ctx context.Context) {
	users := c.Sessions()
	if len(users) == 0 {
		return
	}
	logger.LogSync("Reconciling open sessions", slog.Int("sessions", len(users)))
	c.fanOut(ctx, users, func(ctx context.Context, userID string) {
		c.SyncUser(ctx, userID)
	})
}

// fanOut runs fn for every user with at most MaxParallel in flight. When ctx
// ends before every user is started it returns the ones that were not.
func (c *Coordinator) fanOut(ctx context.Context, users []string, fn func(ctx context.Context, userID string)) []string {
	sem := semaphore.NewWeighted(int64(c.cfg.MaxParallel))
	var wg sync.WaitGroup
	var skipped []string
	for i, userID := range users {
		if err := sem.Acquire(ctx, 1); err != nil {
			skipped = users[i:]
			break
		}
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			defer sem.Release(1)
			fn(ctx, userID)
		}(userID)
	}
	wg.Wait()
	return skipped
}

// Start launches the push queue and the interval reconciliation.
func (c *Coordinator) Start() {
	c.bpm.StartProcess(pushProcess, "Pushes progress after local mutations", c.runPushQueue)
	c.bpm.StartTicker(intervalProcess, "Reconciles open sessions with the remote store", c.cfg.Interval, c.reconcileSessions)
	slog.Info("Sync coordinator started",
		slog.String("type", "sync"),
		slog.Duration("interval", c.cfg.Interval))
}

// Stop halts both timers and pushes whatever is still queued.
func (c *Coordinator) Stop(ctx context.Context) {
	c.bpm.StopProcess(intervalProcess)
	c.bpm.StopProcess(pushProcess)
	c.flush(ctx)
	slog.Info("Sync coordinator stopped", slog.String("type", "sync"))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
