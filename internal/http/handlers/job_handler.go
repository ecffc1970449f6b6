package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// JobHandler отвечает за задания и ставки.
type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func jobInputFromRequest(req dto.JobRequest) (service.JobInput, error) {
	in := service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		DeadlineAt:  req.DeadlineAt,
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

// CreateJob POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
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

	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "title, description и budget обязательны")
		return
	}
	in, err := jobInputFromRequest(req)
	if err != nil {
		common.RespondBadRequest(c, "неверный category_id")
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), userID, role, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListJobs GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	jobs, err := h.jobs.ListJobs(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GetJob GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "title, description и budget обязательны")
		return
	}
	in, err := jobInputFromRequest(req)
	if err != nil {
		common.RespondBadRequest(c, "неверный category_id")
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), userID, jobID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CancelJob POST /jobs/:id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.jobs.CancelJob(c.Request.Context(), userID, jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListMyJobs GET /jobs/my
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListMyJobs(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// SubmitBid POST /jobs/:id/bids
func (h *JobHandler) SubmitBid(c *gin.Context) {
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

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "proposal_text, amount и delivery_days обязательны")
		return
	}

	bid, err := h.jobs.SubmitBid(c.Request.Context(), userID, role, jobID, service.BidInput{
		ProposalText: req.ProposalText,
		Amount:       req.Amount,
		DeliveryDays: req.DeliveryDays,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bid)
}

// ListJobBids GET /jobs/:id/bids
func (h *JobHandler) ListJobBids(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bids, err := h.jobs.ListJobBids(c.Request.Context(), userID, jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// ListMyBids GET /bids/my
func (h *JobHandler) ListMyBids(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bids, err := h.jobs.ListMyBids(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// AcceptBid POST /bids/:id/accept
func (h *JobHandler) AcceptBid(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bidID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bid, order, err := h.jobs.AcceptBid(c.Request.Context(), userID, bidID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bid":   bid,
		"order": order,
	})
}
