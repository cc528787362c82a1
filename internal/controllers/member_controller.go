package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/imagehost"
	"lsx-portal/internal/middleware"
	"lsx-portal/internal/services"
)

// MeHandler godoc
// @Summary My profile
// @Description Refreshes the member from the document store
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /me [get]
func MeHandler(svc *services.ProfileService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := svc.Get(c.UserContext(), middleware.MemberIDFromLocals(c))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(dto.ProfileResponse{Member: profile, State: saveState(c, currentState(c))})
	}
}

// UpdateMeHandler godoc
// @Summary Edit my profile
// @Description Change display name and/or password. Display names must stay unique
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileRequest true "Changes"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /me [patch]
func UpdateMeHandler(svc *services.ProfileService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
		}

		profile, err := svc.Update(c.UserContext(), middleware.MemberIDFromLocals(c), body)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(dto.ProfileResponse{Member: profile, State: saveState(c, currentState(c))})
	}
}

// UploadPhotoHandler godoc
// @Summary Upload my photo
// @Description jpg or png, hosted on the image service
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} dto.PhotoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /me/photo [post]
func UploadPhotoHandler(svc *services.ProfileService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "file is required"})
		}
		if file.Size > imagehost.MaxImageBytes {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "image is too large"})
		}

		f, err := file.Open()
		if err != nil {
			return fail(c, logger, err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, imagehost.MaxImageBytes+1))
		if err != nil {
			return fail(c, logger, err)
		}

		url, err := svc.UploadPhoto(c.UserContext(), middleware.MemberIDFromLocals(c), data)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(dto.PhotoResponse{PhotoURL: url})
	}
}
