package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/models"
	"lsx-portal/internal/services"
)

// CalendarHandler godoc
// @Summary Event calendar
// @Description Month grid of weeks starting on Sunday, in the portal's civil timezone
// @Tags events
// @Produce json
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} models.CalendarMonth
// @Failure 400 {object} dto.ErrorResponse
// @Router /calendar [get]
func CalendarHandler(svc *services.CalendarService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, err := svc.ParseMonth(c.Query("month"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(svc.Month(c.UserContext(), first))
	}
}

// EventDetailHandler godoc
// @Summary Event detail
// @Tags events
// @Produce json
// @Param id path string true "Event page id"
// @Success 200 {object} models.Event
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func EventDetailHandler(svc *services.CalendarService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ev, err := svc.Event(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(ev)
	}
}

// GalleryHandler godoc
// @Summary Photo gallery
// @Description Events with a photo or album link, split into two columns
// @Tags events
// @Produce json
// @Success 200 {object} dto.Gallery
// @Router /gallery [get]
func GalleryHandler(svc *services.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Columns(c.UserContext()))
	}
}

// NewsHandler godoc
// @Summary News and rules
// @Tags news
// @Produce json
// @Param category query string false "News or Rules"
// @Success 200 {object} dto.ListResp[models.NewsItem]
// @Failure 400 {object} dto.ErrorResponse
// @Router /news [get]
func NewsHandler(svc *services.NewsService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.Query("category"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(dto.ListResp[models.NewsItem]{Items: items, Total: len(items)})
	}
}
