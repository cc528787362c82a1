package dto

import (
	"lsx-portal/internal/models"
	"lsx-portal/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListResp[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type Gallery struct {
	Left  []models.Event `json:"left"`
	Right []models.Event `json:"right"`
	Total int            `json:"total"`
}

type NavigateRequest struct {
	Screen session.Mode `json:"screen" example:"leaderboard"`
}

type StateResponse struct {
	State session.State `json:"state"`
}
