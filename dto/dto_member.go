package dto

import (
	"lsx-portal/internal/models"
	"lsx-portal/internal/session"
)

type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name,omitempty"`
	Password        string  `json:"password,omitempty"`
	ConfirmPassword string  `json:"confirm_password,omitempty"`
}

type ProfileResponse struct {
	Member models.MemberProfile `json:"member"`
	State  session.State        `json:"state"`
}

type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}
