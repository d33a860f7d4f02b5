package handlers

import (
	"github.com/ellavondegurechaff/healthquest/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public health route and the identified /api
// group. Extra handlers run after identity on every /api route.
func RegisterRoutes(app *fiber.App, webApp *WebApp, extra ...fiber.Handler) {
	app.Get("/health", HealthCheck(webApp))

	api := app.Group("/api", middleware.Identity())
	for _, h := range extra {
		api.Use(h)
	}

	catalog := api.Group("/catalog")
	catalog.Get("/stats", CatalogStats(webApp))
	catalog.Get("/search", SearchCatalog(webApp))
	catalog.Get("/quizzes", ListQuizzes(webApp))
	catalog.Get("/stories", ListStories(webApp))
	catalog.Get("/reels", ListReels(webApp))
	catalog.Get("/health-centers", ListHealthCenters(webApp))

	progress := api.Group("/progress")
	progress.Get("/", GetProgress(webApp))
	progress.Patch("/", PatchProgress(webApp))
	progress.Post("/reset", ResetProgress(webApp))
	progress.Post("/points", AddPoints(webApp))

	api.Get("/activity", ListActivity(webApp))
	api.Get("/dashboard", GetDashboard(webApp))
	api.Get("/badges", ListBadges(webApp))

	quizzes := api.Group("/quizzes")
	quizzes.Get("/:id", QuizDetail(webApp))
	quizzes.Post("/:id/complete", CompleteQuiz(webApp))
	quizzes.Post("/:id/questions/:question/answer", AnswerQuestion(webApp))

	api.Post("/reels/:id/watch", WatchReel(webApp))

	stories := api.Group("/stories")
	stories.Post("/:id/start", StartStory(webApp))
	stories.Get("/:id/current", CurrentChapter(webApp))
	stories.Post("/:id/choices", SelectChoice(webApp))

	rewards := api.Group("/rewards")
	rewards.Get("/", ListRewards(webApp))
	rewards.Get("/available", AvailableRewards(webApp))
	rewards.Get("/mine", MyRewards(webApp))
	rewards.Get("/stats", RewardStats(webApp))
	rewards.Post("/mine/:id/use", UseReward(webApp))
	rewards.Post("/:id/claim", ClaimReward(webApp))

	api.Post("/mentor-applications", SubmitMentorApplication(webApp))

	session := api.Group("/session")
	session.Post("/open", OpenSession(webApp))
	session.Post("/close", CloseSession(webApp))
}
