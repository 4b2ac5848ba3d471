package web

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/questline/questline/services"
)

func Test_statusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrQuestNotFound, fiber.StatusNotFound},
		{services.ErrTemplateNotFound, fiber.StatusNotFound},
		{services.ErrChallengeNotFound, fiber.StatusNotFound},
		{services.ErrNotAuthorized, fiber.StatusForbidden},
		{services.ErrInvalidFrequency, fiber.StatusBadRequest},
		{services.ErrStartDayInPast, fiber.StatusBadRequest},
		{services.ErrInsufficientReputation, fiber.StatusPaymentRequired},
		{services.ErrAlreadyCompletedToday, fiber.StatusConflict},
		{services.ErrCapacityExceeded, fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
