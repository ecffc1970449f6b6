package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// ProfileHandler отвечает за профили фрилансеров и клиентов.
type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetFreelancer GET /freelancers/:id
func (h *ProfileHandler) GetFreelancer(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	public, err := h.profiles.GetFreelancer(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, public)
}

// GetMyProfile GET /profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
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
		profile, err := h.profiles.GetMyFreelancerProfile(c.Request.Context(), userID)
		if err != nil {
			common.RespondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	case models.RoleClient:
		profile, err := h.profiles.GetMyClientProfile(c.Request.Context(), userID)
		if err != nil {
			common.RespondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	default:
		common.RespondBadRequest(c, "неизвестная роль пользователя")
	}
}

// UpdateFreelancerProfile PUT /profile/freelancer
func (h *ProfileHandler) UpdateFreelancerProfile(c *gin.Context) {
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

	var req dto.FreelancerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	profile, err := h.profiles.UpdateFreelancerProfile(c.Request.Context(), userID, role, service.FreelancerProfileInput{
		Skills:          req.Skills,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateClientProfile PUT /profile/client
func (h *ProfileHandler) UpdateClientProfile(c *gin.Context) {
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

	var req dto.ClientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	profile, err := h.profiles.UpdateClientProfile(c.Request.Context(), userID, role, service.ClientProfileInput{
		CompanyName: req.CompanyName,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
