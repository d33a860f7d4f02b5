package healthquest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest/config"
	"github.com/ellavondegurechaff/healthquest/healthquest/database"
	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/dashboard"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards"
	"github.com/ellavondegurechaff/healthquest/internal/domain/stories"
	"github.com/ellavondegurechaff/healthquest/internal/domain/syncer"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/repositories"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/documentstore"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/objectstore"
)

const rewardSweepProcess = "reward-expiry"

// App holds every long-lived component of a running HealthQuest process.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB        *database.DB
	Mongo     *documentstore.Client
	Catalog   *catalog.Catalog
	Progress  *progress.Store
	Scoring   *progress.Engine
	Activity  *activity.Log
	Ledger    *rewards.Ledger
	Mentors   *rewards.MentorService
	Stories   *stories.Engine
	Sync      *syncer.Coordinator
	Dashboard *dashboard.Service
	Processes *utils.BackgroundProcessManager
}

func (c DBConfig) toDatabase() database.DBConfig {
	return database.DBConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		PoolSize: c.PoolSize,
	}
}

// OpenDB connects to Postgres and makes sure the schema exists.
func OpenDB(ctx context.Context, cfg Config) (*database.DB, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg.DB.toDatabase())
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(start)))
	return db, nil
}

// LoadCatalog reads the content catalog from a local directory or from the
// configured Spaces bucket.
func LoadCatalog(ctx context.Context, cfg Config) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, config.CatalogLoadTimeout)
	defer cancel()

	var src catalog.Source
	switch cfg.Catalog.Source {
	case "dir":
		src = catalog.NewDirSource(os.DirFS(cfg.Catalog.Path), cfg.Catalog.Path)
	case "spaces":
		client, err := objectstore.NewSpacesClient(ctx, objectstore.SpacesConfig{
			Key:      cfg.Spaces.Key,
			Secret:   cfg.Spaces.Secret,
			Region:   cfg.Spaces.Region,
			Bucket:   cfg.Spaces.Bucket,
			Endpoint: cfg.Spaces.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		src = objectstore.NewCatalogSource(client, cfg.Spaces.Bucket, cfg.Catalog.Prefix)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	return catalog.Load(ctx, src)
}

// NewApp connects every backing store and wires the domain services. The
// caller owns the returned App and must Close it.
func NewApp(ctx context.Context, cfg Config, version, commit string) (_ *App, err error) {
	gating, err := rewards.ParseGating(cfg.Rewards.Gating)
	if err != nil {
		return nil, err
	}
	if cfg.Activity.Backend == "mongo" && cfg.Mongo.URI == "" {
		return nil, errors.New("activity backend mongo requires [mongo] uri")
	}

	app := &App{
		Cfg:       cfg,
		Version:   version,
		Commit:    commit,
		Processes: utils.NewBackgroundProcessManager(),
	}
	defer func() {
		if err != nil {
			app.Close(context.Background())
		}
	}()

	if app.DB, err = OpenDB(ctx, cfg); err != nil {
		return nil, err
	}
	if cfg.Mongo.URI != "" {
		if app.Mongo, err = documentstore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database); err != nil {
			return nil, err
		}
	}
	if app.Catalog, err = LoadCatalog(ctx, cfg); err != nil {
		return nil, err
	}

	bunDB := app.DB.BunDB()
	rewardRepo := repositories.NewRewardRepository(bunDB)

	var activityRepo activity.Repository = repositories.NewActivityRepository(bunDB)
	if cfg.Activity.Backend == "mongo" {
		mongoActivity := documentstore.NewActivityRepository(app.Mongo, cfg.Mongo.ActivityCollection)
		if err = mongoActivity.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		activityRepo = mongoActivity
	}

	if app.Activity, err = activity.NewLog(activityRepo, cfg.Cache.ActivitySize, cfg.Activity.MemoryPerUser); err != nil {
		return nil, err
	}
	if app.Progress, err = progress.NewStore(repositories.NewProgressRepository(bunDB), cfg.Cache.ProgressSize); err != nil {
		return nil, err
	}
	app.Scoring = progress.NewEngine(app.Progress, app.Activity)
	app.Ledger = rewards.NewLedger(rewardRepo, rewards.Config{
		Gating:   gating,
		ClaimTTL: cfg.Rewards.ClaimTTL(),
	})
	app.Mentors = rewards.NewMentorService(rewardRepo)
	if app.Stories, err = stories.NewEngine(app.Catalog, app.Scoring, cfg.Cache.SessionSize); err != nil {
		return nil, err
	}
	app.Dashboard = dashboard.NewService(app.Progress, app.Activity)

	if app.Mongo != nil {
		remote := documentstore.NewProgressStore(app.Mongo, cfg.Mongo.ProgressCollection)
		app.Sync = syncer.NewCoordinator(remote, app.Progress, syncer.Config{
			Interval:    cfg.Sync.Interval(),
			Timeout:     cfg.Sync.Timeout(),
			MaxParallel: cfg.Sync.MaxParallel,
		}, app.Processes)
		app.Progress.SetNotifier(app.Sync)
	} else {
		slog.Warn("No [mongo] uri configured, remote progress sync is disabled", slog.String("type", "sync"))
	}

	return app, nil
}

// Start launches the background processes: remote sync and the reward expiry
// sweep.
func (a *App) Start() {
	if a.Sync != nil {
		a.Sync.Start()
	}
	a.Processes.StartTicker(rewardSweepProcess, "Persists expired status on overdue reward claims",
		a.Cfg.Rewards.SweepInterval(), func(ctx context.Context) {
			if _, err := a.Ledger.ExpireClaims(ctx); err != nil {
				slog.Error("Reward expiry sweep failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
		})
}

func (a *App) Close(ctx context.Context) {
	if a.Sync != nil {
		a.Sync.Stop(ctx)
	}
	if err := a.Processes.Shutdown(config.ShutdownTimeout); err != nil {
		slog.Warn("Background processes did not stop in time", slog.Any("error", err))
	}
	if a.Mongo != nil {
		if err := a.Mongo.Close(ctx); err != nil {
			slog.Warn("Failed to disconnect from document store", slog.Any("error", err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
