package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/response"
	"gorm.io/gorm"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(db *gorm.DB) *ListingHandler {
	return &ListingHandler{listingService: services.NewListingService(db)}
}

// ListReviews returns paginated reviews with their enrichment blocks
// GET /api/reviews
func (h *ListingHandler) ListReviews(c *gin.Context) {
	var req services.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.listingService.ListReviews(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// ListImages returns paginated images with their analysis blocks
// GET /api/images
func (h *ListingHandler) ListImages(c *gin.Context) {
	var req services.ImageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.listingService.ListImages(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}
