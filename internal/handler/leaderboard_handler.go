package handler

import (
	"net/http"
	"strconv"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/service"
	"anara.com/bimbelpintar/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service service.RankingService
}

func NewLeaderboardHandler(svc service.RankingService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	n := service.DefaultLeaderboardSize
	if sizeStr := c.Query("size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 && size <= 100 {
			n = size
		}
	}

	entries, err := h.service.GetLeaderboard(c.Request.Context(), n)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{Entries: entries})
}
