package handlers

import (
	"strconv"

	"github.com/ellavondegurechaff/healthquest/backend/models"
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/domain/catalog"
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/gofiber/fiber/v2"
)

const (
	// questionXP is credited for each correctly answered quiz question.
	questionXP = 10

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func CatalogStats(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, webApp.Catalog.Stats(), "")
	}
}

func SearchCatalog(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return utils.SendBadRequest(c, "Query parameter q is required", nil)
		}
		limit, err := queryInt(c, "limit", defaultSearchLimit)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), nil)
		}

		results := webApp.Catalog.Search(query, lang(c), min(limit, maxSearchLimit))
		return utils.SendSuccess(c, results, "")
	}
}

func ListQuizzes(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, webApp.Catalog.Quizzes, "")
	}
}

func ListStories(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, webApp.Catalog.Stories, "")
	}
}

func ListReels(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, webApp.Catalog.Reels, "")
	}
}

func ListHealthCenters(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return utils.SendSuccess(c, webApp.Catalog.HealthCenters, "")
		}

		centers := make([]catalog.HealthCenter, 0)
		for _, h := range webApp.Catalog.HealthCenters {
			if h.City == city {
				centers = append(centers, h)
			}
		}
		return utils.SendSuccess(c, centers, "")
	}
}

func QuizDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quiz, ok := webApp.Catalog.Quiz(c.Params("id"))
		if !ok {
			return utils.SendNotFound(c, "Quiz not found")
		}
		return utils.SendSuccess(c, quiz, "")
	}
}

// CompleteQuiz credits the quiz's XP and counts one completed quiz.
func CompleteQuiz(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quiz, ok := webApp.Catalog.Quiz(c.Params("id"))
		if !ok {
			return utils.SendNotFound(c, "Quiz not found")
		}

		result, err := webApp.Scoring.Apply(c.Context(), utils.UserID(c), progress.Award{
			Category:     progress.CategoryQuiz,
			Amount:       quiz.XP,
			Completed:    true,
			ActivityType: activity.TypeQuiz,
			Title:        quiz.Title.Get("en"),
		})
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, result, "Quiz completed")
	}
}

// AnswerQuestion checks one answer. A correct answer earns question XP
// without counting a completed quiz.
func AnswerQuestion(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quiz, ok := webApp.Catalog.Quiz(c.Params("id"))
		if !ok {
			return utils.SendNotFound(c, "Quiz not found")
		}
		questionID, err := strconv.Atoi(c.Params("question"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid question id", nil)
		}

		idx := -1
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == questionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return utils.SendNotFound(c, "Question not found")
		}
		question := quiz.Questions[idx]

		var req models.AnswerRequest
		if err := c.BodyParser(&req); err != nil || req.Option == nil {
			return utils.SendBadRequest(c, "An option index is required", nil)
		}
		if *req.Option < 0 || *req.Option >= len(question.Options) {
			return utils.SendBadRequest(c, "Option out of range", nil)
		}

		resp := models.AnswerResponse{
			Correct:     *req.Option == question.Correct,
			Explanation: question.Explanation.Get(lang(c)),
		}
		if resp.Correct {
			resp.Award, err = webApp.Scoring.Apply(c.Context(), utils.UserID(c), progress.Award{
				Category:     progress.CategoryQuiz,
				Amount:       questionXP,
				ActivityType: activity.TypeQuestion,
				Title:        quiz.Title.Get("en"),
			})
			if err != nil {
				return err
			}
		}
		return utils.SendSuccess(c, resp, "")
	}
}

// WatchReel credits the reel's XP and counts one watched reel.
func WatchReel(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reel, ok := webApp.Catalog.Reel(c.Params("id"))
		if !ok {
			return utils.SendNotFound(c, "Reel not found")
		}

		result, err := webApp.Scoring.Apply(c.Context(), utils.UserID(c), progress.Award{
			Category:     progress.CategoryReels,
			Amount:       reel.XP,
			Completed:    true,
			ActivityType: activity.TypeReel,
			Title:        reel.Title.Get("en"),
		})
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, result, "Reel watched")
	}
}
