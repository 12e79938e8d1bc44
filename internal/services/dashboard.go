package services

import (
	"github.com/rateyourbarber/trustengine/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db    *gorm.DB
	trust *TrustService
}

func NewDashboardService(db *gorm.DB, trust *TrustService) *DashboardService {
	return &DashboardService{db: db, trust: trust}
}

type DashboardStats struct {
	TotalShops      int64   `json:"total_shops"`
	VerifiedShops   int64   `json:"verified_shops"`
	VerifiedPercent float64 `json:"verified_percent"`
	TotalBarbers    int64   `json:"total_barbers"`
	TotalReviews    int64   `json:"total_reviews"`
	EnrichedReviews int64   `json:"enriched_reviews"`
	FlaggedReviews  int64   `json:"flagged_reviews"`
	TotalImages     int64   `json:"total_images"`
	AnalyzedImages  int64   `json:"analyzed_images"`
	AvgShopTrust    float64 `json:"avg_shop_trust"`
	AvgBarberTrust  float64 `json:"avg_barber_trust"`
	AvgSentiment    float64 `json:"avg_sentiment"`
}

type TopEntity struct {
	EntityType string  `json:"entity_type"`
	EntityID   uint    `json:"entity_id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Bucket     string  `json:"bucket"`
}

type DashboardResponse struct {
	Stats         DashboardStats   `json:"stats"`
	ShopBuckets   map[string]int64 `json:"shop_buckets"`
	BarberBuckets map[string]int64 `json:"barber_buckets"`
	TopShops      []TopEntity      `json:"top_shops"`
	TopBarbers    []TopEntity      `json:"top_barbers"`
}

func (s *DashboardService) GetStats() (*DashboardResponse, error) {
	var stats DashboardStats

	s.db.Model(&models.Shop{}).Count(&stats.TotalShops)
	s.db.Model(&models.Shop{}).Where("verified = ?", true).Count(&stats.VerifiedShops)
	if stats.TotalShops > 0 {
		stats.VerifiedPercent = round3(float64(stats.VerifiedShops) / float64(stats.TotalShops) * 100)
	}

	s.db.Model(&models.Barber{}).Count(&stats.TotalBarbers)

	s.db.Model(&models.Review{}).Count(&stats.TotalReviews)
	s.db.Model(&models.Review{}).Where("enriched_at IS NOT NULL").Count(&stats.EnrichedReviews)
	s.db.Model(&models.Review{}).
		Where("is_spam = ? OR is_fake = ? OR is_attack = ? OR is_inappropriate = ?", true, true, true, true).
		Count(&stats.FlaggedReviews)

	s.db.Model(&models.Image{}).Count(&stats.TotalImages)
	s.db.Model(&models.Image{}).Where("analyzed_at IS NOT NULL").Count(&stats.AnalyzedImages)

	s.db.Model(&models.TrustScore{}).
		Where("entity_type = ? AND insufficient_data = ?", models.EntityTypeShop, false).
		Select("COALESCE(AVG(score), 0)").
		Scan(&stats.AvgShopTrust)
	s.db.Model(&models.TrustScore{}).
		Where("entity_type = ? AND insufficient_data = ?", models.EntityTypeBarber, false).
		Select("COALESCE(AVG(score), 0)").
		Scan(&stats.AvgBarberTrust)

	s.db.Model(&models.Review{}).
		Where("adjusted_sentiment IS NOT NULL").
		Select("COALESCE(AVG(adjusted_sentiment), 0)").
		Scan(&stats.AvgSentiment)

	stats.AvgShopTrust = round3(stats.AvgShopTrust)
	stats.AvgBarberTrust = round3(stats.AvgBarberTrust)
	stats.AvgSentiment = round3(stats.AvgSentiment)

	shopBuckets, err := s.trust.BucketDistribution(models.EntityTypeShop)
	if err != nil {
		return nil, err
	}
	barberBuckets, err := s.trust.BucketDistribution(models.EntityTypeBarber)
	if err != nil {
		return nil, err
	}

	topShops, err := s.topEntities(models.EntityTypeShop, 10)
	if err != nil {
		return nil, err
	}
	topBarbers, err := s.topEntities(models.EntityTypeBarber, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Stats:         stats,
		ShopBuckets:   shopBuckets,
		BarberBuckets: barberBuckets,
		TopShops:      topShops,
		TopBarbers:    topBarbers,
	}, nil
}

func (s *DashboardService) topEntities(entityType string, limit int) ([]TopEntity, error) {
	var scores []models.TrustScore
	err := s.db.Where("entity_type = ? AND insufficient_data = ?", entityType, false).
		Order("score DESC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	top := make([]TopEntity, 0, len(scores))
	for _, sc := range scores {
		entry := TopEntity{
			EntityType: sc.EntityType,
			EntityID:   sc.EntityID,
			Score:      sc.Score,
			Bucket:     sc.Bucket,
		}
		if entityType == models.EntityTypeBarber {
			var barber models.Barber
			if err := s.db.First(&barber, sc.EntityID).Error; err == nil {
				entry.Name = barber.Name
			}
		} else {
			var shop models.Shop
			if err := s.db.First(&shop, sc.EntityID).Error; err == nil {
				entry.Name = shop.Name
			}
		}
		top = append(top, entry)
	}
	return top, nil
}
