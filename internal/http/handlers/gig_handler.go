package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// GigHandler отвечает за каталог услуг и их покупку.
type GigHandler struct {
	gigs *service.GigService
}

func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

func gigInputFromRequest(req dto.GigRequest) (service.GigInput, error) {
	in := service.GigInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return in, err
		}
		in.CategoryID = &categoryID
	}
	return in, nil
}

// CreateGig POST /gigs
func (h *GigHandler) CreateGig(c *gin.Context) {
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

	var req dto.GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "title, description, price и delivery_days обязательны")
		return
	}
	in, err := gigInputFromRequest(req)
	if err != nil {
		common.RespondBadRequest(c, "неверный category_id")
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), userID, role, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gig)
}

// ListGigs GET /gigs
func (h *GigHandler) ListGigs(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	filter := repository.GigListFilter{Limit: limit, Offset: offset}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "неверный category_id")
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondBadRequest(c, "неверный min_price")
			return
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondBadRequest(c, "неверный max_price")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	gigs, err := h.gigs.ListGigs(c.Request.Context(), filter)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// GetGig GET /gigs/:id
func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// UpdateGig PUT /gigs/:id
func (h *GigHandler) UpdateGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "title, description, price и delivery_days обязательны")
		return
	}
	in, err := gigInputFromRequest(req)
	if err != nil {
		common.RespondBadRequest(c, "неверный category_id")
		return
	}

	gig, err := h.gigs.UpdateGig(c.Request.Context(), userID, gigID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// SetGigActive PATCH /gigs/:id/active
func (h *GigHandler) SetGigActive(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.GigActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		common.RespondBadRequest(c, "is_active обязателен")
		return
	}

	if err := h.gigs.SetGigActive(c.Request.Context(), userID, gigID, *req.IsActive); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "видимость услуги обновлена"})
}

// ListMyGigs GET /gigs/my
func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigs, err := h.gigs.ListMyGigs(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// PurchaseGig POST /gigs/:id/purchase
func (h *GigHandler) PurchaseGig(c *gin.Context) {
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

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.gigs.PurchaseGig(c.Request.Context(), userID, role, gigID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
