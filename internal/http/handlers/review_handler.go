package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// ReviewHandler отвечает за отзывы о заказах.
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview POST /orders/:id/review
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "rating обязателен")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userID, orderID, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetOrderReview GET /orders/:id/review
func (h *ReviewHandler) GetOrderReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.GetOrderReview(c.Request.Context(), userID, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	if review == nil {
		c.JSON(http.StatusOK, gin.H{"review": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// ListFreelancerReviews GET /freelancers/:id/reviews
func (h *ReviewHandler) ListFreelancerReviews(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListFreelancerReviews(c.Request.Context(), freelancerID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	avg, count, err := h.reviews.GetFreelancerRating(c.Request.Context(), freelancerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": avg,
		"total_reviews":  count,
	})
}
