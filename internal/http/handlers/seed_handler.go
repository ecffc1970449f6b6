package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// SeedHandler наполняет базу демо-данными. Включается только в development.
type SeedHandler struct {
	seed *service.SeedService
}

func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed POST /seed
func (h *SeedHandler) Seed(c *gin.Context) {
	result, err := h.seed.Seed(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
