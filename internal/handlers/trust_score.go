package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/response"
	"gorm.io/gorm"
)

type TrustScoreHandler struct {
	listingService *services.ListingService
	trustService   *services.TrustService
}

func NewTrustScoreHandler(db *gorm.DB) *TrustScoreHandler {
	return &TrustScoreHandler{
		listingService: services.NewListingService(db),
		trustService:   services.NewTrustService(services.NewStore(db)),
	}
}

// List returns current trust records
// GET /api/trust-scores?entity_type=&entity_id=
func (h *TrustScoreHandler) List(c *gin.Context) {
	var req services.TrustScoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.EntityType != "" && req.EntityType != models.EntityTypeBarber && req.EntityType != models.EntityTypeShop {
		response.BadRequest(c, "entity_type must be barber or shop")
		return
	}

	scores, err := h.listingService.ListTrustScores(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, scores)
}

type recomputeRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
}

// Recompute recomputes trust scores, either one entity or everything
// POST /api/trust-scores/recompute
func (h *TrustScoreHandler) Recompute(c *gin.Context) {
	var req recomputeRequest
	// Empty body means recompute everything.
	_ = c.ShouldBindJSON(&req)

	if req.EntityType != "" {
		if req.EntityType != models.EntityTypeBarber && req.EntityType != models.EntityTypeShop {
			response.BadRequest(c, "entity_type must be barber or shop")
			return
		}
		if req.EntityID == 0 {
			response.BadRequest(c, "entity_id required when entity_type is set")
			return
		}
		score, err := h.trustService.RecomputeEntity(req.EntityType, req.EntityID)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, score)
		return
	}

	n, err := h.trustService.RecomputeAll()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"recomputed": n})
}
