package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// StatsHandler отдаёт показатели дашбордов.
type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetMyStats GET /stats
func (h *StatsHandler) GetMyStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	switch role {
	case models.RoleFreelancer:
		stats, err := h.stats.FreelancerDashboard(c.Request.Context(), userID, role)
		if err != nil {
			common.RespondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	case models.RoleClient:
		stats, err := h.stats.ClientDashboard(c.Request.Context(), userID, role)
		if err != nil {
			common.RespondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	default:
		common.RespondBadRequest(c, "неизвестная роль пользователя")
	}
}

// RebuildMyStats POST /stats/rebuild
func (h *StatsHandler) RebuildMyStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	profile, err := h.stats.RebuildMyStats(c.Request.Context(), userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
