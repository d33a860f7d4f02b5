package handlers

import (
	"errors"

	"github.com/ellavondegurechaff/healthquest/backend/models"
	"github.com/ellavondegurechaff/healthquest/backend/utils"
	"github.com/ellavondegurechaff/healthquest/internal/domain/stories"
	"github.com/gofiber/fiber/v2"
)

func sendStoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, stories.ErrStoryNotFound):
		return utils.SendNotFound(c, "Story not found")
	case errors.Is(err, stories.ErrInvalidChoice):
		return utils.SendBadRequest(c, err.Error(), nil)
	case errors.Is(err, stories.ErrStoryFinished):
		return utils.SendConflict(c, "Story already finished, start it again to replay", nil)
	}
	return err
}

// StartStory begins (or restarts) the story at its first chapter.
func StartStory(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pos, err := webApp.Stories.Start(utils.UserID(c), c.Params("id"))
		if err != nil {
			return sendStoryError(c, err)
		}
		return utils.SendSuccess(c, pos, "Story started")
	}
}

func CurrentChapter(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pos, err := webApp.Stories.Current(utils.UserID(c), c.Params("id"))
		if err != nil {
			return sendStoryError(c, err)
		}
		return utils.SendSuccess(c, pos, "")
	}
}

// SelectChoice takes exactly one edge of the story graph.
func SelectChoice(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ChoiceRequest
		if err := c.BodyParser(&req); err != nil || req.Choice == nil {
			return utils.SendBadRequest(c, "A choice index is required", nil)
		}

		transition, err := webApp.Stories.SelectChoice(c.Context(), utils.UserID(c), c.Params("id"), *req.Choice)
		if err != nil {
			return sendStoryError(c, err)
		}
		return utils.SendSuccess(c, transition, "")
	}
}
