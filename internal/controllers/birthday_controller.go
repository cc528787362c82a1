package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lsx-portal/dto"
	"lsx-portal/internal/models"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/services"
)

// BirthdaysHandler godoc
// @Summary Birthdays in a month
// @Tags birthdays
// @Produce json
// @Param month query int false "1-12, defaults to the current month"
// @Success 200 {object} dto.ListResp[models.Birthday]
// @Failure 400 {object} dto.ErrorResponse
// @Router /birthdays [get]
func BirthdaysHandler(svc *services.BirthdayService, clock ranking.Clock) fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.QueryInt("month", int(clock.Today().Month()))
		if month < 1 || month > 12 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "month must be between 1 and 12"})
		}
		items := svc.InMonth(c.UserContext(), time.Month(month))
		return c.JSON(dto.ListResp[models.Birthday]{Items: items, Total: len(items)})
	}
}

// UpcomingBirthdaysHandler godoc
// @Summary Upcoming birthdays
// @Tags birthdays
// @Produce json
// @Param days query int false "Window in days including today (default 30)"
// @Success 200 {object} dto.ListResp[models.Birthday]
// @Router /birthdays/upcoming [get]
func UpcomingBirthdaysHandler(svc *services.BirthdayService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items := svc.Upcoming(c.UserContext(), c.QueryInt("days", services.DefaultUpcomingDays))
		return c.JSON(dto.ListResp[models.Birthday]{Items: items, Total: len(items)})
	}
}
