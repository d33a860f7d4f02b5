package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	QuizzesFile       = "quizzes.json"
	StoriesFile       = "stories.json"
	ReelsFile         = "reels.json"
	RewardsFile       = "rewards.json"
	HealthCentersFile = "health_centers.json"

	maxConcurrentLoads = 4
)

// Source opens catalog files by name. Implementations return an error
// matching fs.ErrNotExist for files that are absent.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// FSSource reads catalog files from a file system, usually os.DirFS.
type FSSource struct {
	FS   fs.FS
	Name string
}

func NewDirSource(fsys fs.FS, name string) *FSSource {
	return &FSSource{FS: fsys, Name: name}
}

func (s *FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(name)
}

func (s *FSSource) String() string {
	return "dir:" + s.Name
}

// Load reads every catalog file from src in parallel. A missing file yields an
// empty section; an unreadable file fails the load. Individual malformed items
// are excluded instead of failing their whole file.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	start := time.Now()
	var content Content
	var decodeProblems [5][]error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	g.Go(func() (err error) {
		content.Quizzes, decodeProblems[0], err = loadFile[Quiz](gctx, src, QuizzesFile)
		return err
	})
	g.Go(func() (err error) {
		content.Stories, decodeProblems[1], err = loadFile[Story](gctx, src, StoriesFile)
		return err
	})
	g.Go(func() (err error) {
		content.Reels, decodeProblems[2], err = loadFile[Reel](gctx, src, ReelsFile)
		return err
	})
	g.Go(func() (err error) {
		content.Rewards, decodeProblems[3], err = loadFile[Reward](gctx, src, RewardsFile)
		return err
	})
	g.Go(func() (err error) {
		content.HealthCenters, decodeProblems[4], err = loadFile[HealthCenter](gctx, src, HealthCentersFile)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src, err)
	}

	c := New(content)
	for _, problems := range decodeProblems {
		c.Problems = append(c.Problems, problems...)
	}

	stats := c.Stats()
	slog.Info("Catalog loaded",
		slog.String("source", src.String()),
		slog.Int("quizzes", stats.Quizzes),
		slog.Int("stories", stats.Stories),
		slog.Int("reels", stats.Reels),
		slog.Int("rewards", stats.Rewards),
		slog.Int("health_centers", stats.HealthCenters),
		slog.Int("excluded", stats.Excluded),
		slog.Duration("took", time.Since(start)))

	return c, nil
}

func loadFile[T any](ctx context.Context, src Source, name string) ([]T, []error, error) {
	rc, err := src.Open(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Catalog file missing, section left empty", slog.String("file", name))
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	var raw []json.RawMessage
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", name, err)
	}

	items := make([]T, 0, len(raw))
	var problems []error
	for i, msg := range raw {
		var item T
		if err := json.Unmarshal(msg, &item); err != nil {
			err = fmt.Errorf("%s item %d: %w", name, i, err)
			problems = append(problems, err)
			slog.Error("Excluding malformed catalog item", slog.String("file", name), slog.Any("error", err))
			continue
		}
		items = append(items, item)
	}
	return items, problems, nil
}
