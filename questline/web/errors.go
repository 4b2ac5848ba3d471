package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/questline/questline/services"
)

// statusForError maps the engine's terminal error kinds onto HTTP statuses.
// Unknown errors are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrQuestNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrChallengeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized),
		errors.Is(err, services.ErrNotChallengeMember):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidFrequency),
		errors.Is(err, services.ErrInvalidDifficulty),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrStartDayInPast):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientReputation):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrAlreadyCompletedToday),
		errors.Is(err, services.ErrQuestNotActive),
		errors.Is(err, services.ErrChallengeNotActive),
		errors.Is(err, services.ErrAlreadyJoinedChallenge),
		errors.Is(err, services.ErrTemplateNotForSale),
		errors.Is(err, services.ErrCapacityExceeded):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
