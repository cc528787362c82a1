package dto

import (
	"time"

	"lsx-portal/internal/models"
	"lsx-portal/internal/ranking"
)

type LeaderboardResponse struct {
	View    string        `json:"view"`
	Total   int           `json:"total"`
	Partial bool          `json:"partial"`
	AsOf    time.Time     `json:"as_of"`
	Rows    []ranking.Row `json:"rows"`
}

type LeaderboardStats struct {
	Members              int            `json:"members"`
	Ranked               int            `json:"ranked"`
	Juniors              int            `json:"juniors"`
	TotalEvents          int            `json:"total_events"`
	AverageParticipation float64        `json:"average_participation"`
	Groups               map[string]int `json:"groups"`
}

type HistoryResponse struct {
	Items []models.RankingSnapshot `json:"items"`
}
