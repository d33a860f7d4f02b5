package backend

import (
	"context"
	"strings"
	"time"

	"github.com/ellavondegurechaff/healthquest/backend/handlers"
	"github.com/ellavondegurechaff/healthquest/backend/middleware"
	"github.com/ellavondegurechaff/healthquest/healthquest"
	"github.com/ellavondegurechaff/healthquest/healthquest/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitCleanupProcess = "rate-limit-cleanup"

// NewWebApp exposes a running App's services to the HTTP handlers.
func NewWebApp(app *healthquest.App) *handlers.WebApp {
	webApp := &handlers.WebApp{
		Catalog:   app.Catalog,
		Progress:  app.Progress,
		Scoring:   app.Scoring,
		Activity:  app.Activity,
		Ledger:    app.Ledger,
		Mentors:   app.Mentors,
		Stories:   app.Stories,
		Dashboard: app.Dashboard,
		DB:        app.DB,
		Version:   app.Version,
		Commit:    app.Commit,
	}
	// a nil *Coordinator in the interface would not compare equal to nil
	if app.Sync != nil {
		webApp.Sessions = app.Sync
	}
	return webApp
}

// NewServer builds the API-only fiber app. The rate limiter's cleanup runs as
// a background process owned by bpm.
func NewServer(webApp *handlers.WebApp, cfg healthquest.WebConfig, bpm *utils.BackgroundProcessManager) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "HealthQuest API",
		ServerHeader:          "HealthQuest",
		ErrorHandler:          middleware.CustomErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ","),
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.UserIDHeader,
	}))
	app.Use(middleware.LoggingMiddleware())

	window := time.Duration(cfg.RateLimitWindow) * time.Second
	limiter := middleware.NewRateLimiter(cfg.RateLimit, window)
	bpm.StartTicker(rateLimitCleanupProcess, "Drops idle rate limit windows", window,
		func(context.Context) { limiter.Cleanup() })

	handlers.RegisterRoutes(app, webApp, middleware.RateLimit(limiter))

	return app
}
