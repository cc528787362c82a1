package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/middleware"
	"lsx-portal/internal/services"
	"lsx-portal/internal/session"
)

// LoginHandler godoc
// @Summary Log in a member
// @Description Verify username and password, return an access token and set the remember-me cookie when asked
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /login [post]
func LoginHandler(auth *services.AuthService, profiles *services.ProfileService, tokens *services.TokenIssuer, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
		}

		page, err := auth.Login(c.UserContext(), body.Username, body.Password)
		if err != nil {
			return fail(c, logger, err)
		}

		access, err := tokens.Issue(page.ID, services.AccessTokenTTL)
		if err != nil {
			return fail(c, logger, err)
		}
		if body.Remember {
			remember, err := tokens.Issue(page.ID, services.RememberTokenTTL)
			if err != nil {
				return fail(c, logger, err)
			}
			session.SetRememberCookie(c, remember, services.RememberTokenTTL)
		}

		middleware.SetMemberID(c, page.ID)
		state := saveState(c, session.LogIn(session.ReadStateCookie(c), page.ID))

		return c.JSON(dto.LoginResponse{
			Member:      profiles.FromPage(*page),
			AccessToken: access,
			State:       state,
		})
	}
}

// RegisterHandler godoc
// @Summary Register a member
// @Description Create a member document. Display names must be unique
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "New member"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /register [post]
func RegisterHandler(auth *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
		}

		page, err := auth.Register(c.UserContext(), body)
		if err != nil {
			return fail(c, logger, err)
		}
		saveState(c, session.State{Screen: session.LoginScreen()})

		return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
			Message:  "registration complete, please log in",
			MemberID: page.ID,
		})
	}
}

// LogoutHandler godoc
// @Summary Log out
// @Description Clear the remember-me cookie and reset the application state
// @Tags auth
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /logout [post]
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session.ClearRememberCookie(c)
		// a missing state cookie reads back as the logged-out default
		session.ClearStateCookie(c)
		return c.JSON(dto.StateResponse{State: session.LogOut(session.ReadStateCookie(c))})
	}
}
