package services

import (
	"github.com/rateyourbarber/trustengine/internal/models"
	"gorm.io/gorm"
)

// ListingService serves the read endpoints for reviews and images.
type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

type ReviewListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	ShopID   uint   `form:"shop_id"`
	BarberID uint   `form:"barber_id"`
	Enriched *bool  `form:"enriched"`
	Flagged  *bool  `form:"flagged"`
	Provider string `form:"provider"`
}

type ReviewListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Review `json:"items"`
}

func (s *ListingService) ListReviews(req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Review{})

	if req.ShopID != 0 {
		query = query.Where("shop_id = ?", req.ShopID)
	}
	if req.BarberID != 0 {
		query = query.Where("barber_id = ?", req.BarberID)
	}
	if req.Enriched != nil {
		if *req.Enriched {
			query = query.Where("enriched_at IS NOT NULL")
		} else {
			query = query.Where("enriched_at IS NULL")
		}
	}
	if req.Flagged != nil {
		cond := "is_spam = ? OR is_fake = ? OR is_attack = ? OR is_inappropriate = ?"
		if *req.Flagged {
			query = query.Where(cond, true, true, true, true)
		} else {
			query = query.Not(cond, true, true, true, true)
		}
	}
	if req.Provider != "" {
		query = query.Where("enriched_provider = ?", req.Provider)
	}

	var total int64
	query.Count(&total)

	var reviews []models.Review
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    reviews,
	}, nil
}

type ImageListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	ShopID   uint   `form:"shop_id"`
	BarberID uint   `form:"barber_id"`
	Source   string `form:"source"`
	Analyzed *bool  `form:"analyzed"`
}

type ImageListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Image `json:"items"`
}

func (s *ListingService) ListImages(req *ImageListRequest) (*ImageListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Image{})

	if req.ShopID != 0 {
		query = query.Where("shop_id = ?", req.ShopID)
	}
	if req.BarberID != 0 {
		query = query.Where("barber_id = ?", req.BarberID)
	}
	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}
	if req.Analyzed != nil {
		if *req.Analyzed {
			query = query.Where("analyzed_at IS NOT NULL")
		} else {
			query = query.Where("analyzed_at IS NULL")
		}
	}

	var total int64
	query.Count(&total)

	var images []models.Image
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, err
	}

	return &ImageListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    images,
	}, nil
}

type TrustScoreListRequest struct {
	EntityType string `form:"entity_type"`
	EntityID   uint   `form:"entity_id"`
}

// ListTrustScores returns current trust records, optionally narrowed to one
// entity type or a single entity.
func (s *ListingService) ListTrustScores(req *TrustScoreListRequest) ([]models.TrustScore, error) {
	query := s.db.Model(&models.TrustScore{})
	if req.EntityType != "" {
		query = query.Where("entity_type = ?", req.EntityType)
	}
	if req.EntityID != 0 {
		query = query.Where("entity_id = ?", req.EntityID)
	}

	var scores []models.TrustScore
	if err := query.Order("score DESC").Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
