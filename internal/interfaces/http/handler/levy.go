package handler

import (
	appbilling "github.com/estatekit/backend/internal/application/billing"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LevyHandler exposes idempotent levy generation runs
type LevyHandler struct {
	BaseHandler
	levyService *appbilling.LevyService
	authorizer  service.Authorizer
}

// NewLevyHandler creates a new LevyHandler
func NewLevyHandler(levyService *appbilling.LevyService, authorizer service.Authorizer) *LevyHandler {
	return &LevyHandler{
		levyService: levyService,
		authorizer:  authorizer,
	}
}

// RegisterRoutes registers levy routes on the given router group
func (h *LevyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	levies := rg.Group("/levies")
	{
		levies.POST("/generate", h.GenerateForHouse)
		levies.POST("/generate-all", h.GenerateForAllHouses)
	}
}

// GenerateForHouse runs levy generation for a single house. Repeating the run
// skips profiles already levied for the house.
func (h *LevyHandler) GenerateForHouse(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionLevyGenerate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.GenerateLeviesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.levyService.GenerateLeviesForHouse(ctx, uuid.MustParse(req.HouseID), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateForAllHouses runs levy generation across every active house
func (h *LevyHandler) GenerateForAllHouses(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionLevyGenerate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.levyService.GenerateLeviesForAllHouses(ctx, actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
