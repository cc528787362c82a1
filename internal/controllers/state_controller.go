package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lsx-portal/dto"
	"lsx-portal/internal/session"
)

// StateHandler godoc
// @Summary Current application state
// @Tags state
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /state [get]
func StateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.StateResponse{State: saveState(c, currentState(c))})
	}
}

// NavigateHandler godoc
// @Summary Switch screen
// @Description Anonymous visitors asking for the profile land on the login screen
// @Tags state
// @Accept json
// @Produce json
// @Param body body dto.NavigateRequest true "Target screen"
// @Success 200 {object} dto.StateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /state/navigate [post]
func NavigateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.NavigateRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
		}

		next, err := session.Navigate(currentState(c), body.Screen)
		if errors.Is(err, session.ErrUnknownScreen) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(dto.StateResponse{State: saveState(c, next)})
	}
}
