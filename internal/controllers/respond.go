package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/middleware"
	"lsx-portal/internal/repository"
	"lsx-portal/internal/services"
	"lsx-portal/internal/session"
)

// fail maps a service error onto a status and a message that is safe to
// show to the visitor.
func fail(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: verr.Message})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrMemberNotFound), errors.Is(err, repository.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnavailable),
		errors.Is(err, services.ErrPhotoUpload),
		errors.Is(err, services.ErrArchiveDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: rootMessage(err)})
	}
	logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}

// rootMessage drops any detail wrapped behind a sentinel.
func rootMessage(err error) string {
	for _, sentinel := range []error{services.ErrUnavailable, services.ErrPhotoUpload, services.ErrArchiveDisabled} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// currentState reads the visitor's state and reconciles it with the
// authenticated member.
func currentState(c *fiber.Ctx) session.State {
	return session.Reconcile(session.ReadStateCookie(c), middleware.MemberIDFromLocals(c))
}

func saveState(c *fiber.Ctx, s session.State) session.State {
	session.SetStateCookie(c, s)
	return s
}
