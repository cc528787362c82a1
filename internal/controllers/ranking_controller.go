package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/services"
)

// LeaderboardHandler godoc
// @Summary Leaderboard
// @Description One ranking view. The overall view is ordered by external rank, the junior view by junior score
// @Tags leaderboard
// @Produce json
// @Param q query string false "Name substring, case-insensitive"
// @Param group query string false "Exact rank group"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /leaderboard [get]
// @Router /leaderboard/junior [get]
func LeaderboardHandler(svc *services.RankingService, view string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		board, err := svc.Leaderboard(c.UserContext(), view, c.Query("q"), c.Query("group"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(board)
	}
}

// LeaderboardStatsHandler godoc
// @Summary Leaderboard statistics
// @Description Member counts, rank groups and the average participation ratio
// @Tags leaderboard
// @Produce json
// @Success 200 {object} dto.LeaderboardStats
// @Router /leaderboard/stats [get]
func LeaderboardStatsHandler(svc *services.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Stats(c.UserContext()))
	}
}

// LeaderboardHistoryHandler godoc
// @Summary Archived leaderboards
// @Description Most recent daily snapshots, newest first
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of snapshots (default 30, max 90)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /leaderboard/history [get]
func LeaderboardHistoryHandler(svc *services.RankingService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.History(c.UserContext(), int64(c.QueryInt("limit", 30)))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(dto.HistoryResponse{Items: items})
	}
}
