package dto

import (
	"lsx-portal/internal/models"
	"lsx-portal/internal/session"
)

type LoginRequest struct {
	Username string `json:"username" example:"42@lsxrank"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	Member      models.MemberProfile `json:"member"`
	AccessToken string               `json:"accessToken"`
	State       session.State        `json:"state"`
}

type RegisterRequest struct {
	DisplayName     string `json:"display_name"`
	Nickname        string `json:"nickname,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Birthday        string `json:"birthday" example:"2013-06-15"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	MemberID string `json:"member_id"`
}
