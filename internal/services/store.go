package services

import (
	"encoding/json"
	"time"

	"github.com/rateyourbarber/trustengine/internal/models"
	"gorm.io/gorm"
)

// Store is the narrow read/write contract between the enrichment pipeline
// and the database. All enrichment writes go through conditional updates so
// concurrent workers cannot both persist the same item.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FetchPendingReviews returns reviews whose enrichment block is unset, or,
// when reenrich is true, reviews whose provider or model tag differs from the
// current one, so a model upgrade within the same provider re-selects its
// items. Shop is preloaded for the shop-name fallback.
func (s *Store) FetchPendingReviews(providerName, modelID string, reenrich bool, limit int) ([]models.Review, error) {
	var reviews []models.Review
	q := s.db.Preload("Shop").Order("id ASC").Limit(limit)
	if reenrich {
		q = q.Where("enriched_at IS NOT NULL AND (enriched_provider <> ? OR enriched_model <> ?)", providerName, modelID)
	} else {
		q = q.Where("enriched_at IS NULL")
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FetchPendingImages mirrors FetchPendingReviews for images.
func (s *Store) FetchPendingImages(providerName, modelID string, reenrich bool, limit int) ([]models.Image, error) {
	var images []models.Image
	q := s.db.Order("id ASC").Limit(limit)
	if reenrich {
		q = q.Where("analyzed_at IS NOT NULL AND (analyzed_provider <> ? OR analyzed_model <> ?)", providerName, modelID)
	} else {
		q = q.Where("analyzed_at IS NULL")
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FetchEntityReviews reads all reviews for one entity in a single query, so
// aggregation sees a consistent snapshot.
func (s *Store) FetchEntityReviews(entityType string, entityID uint) ([]models.Review, error) {
	var reviews []models.Review
	q := s.db.Order("id ASC")
	switch entityType {
	case models.EntityTypeBarber:
		q = q.Where("barber_id = ?", entityID)
	default:
		q = q.Where("shop_id = ?", entityID)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FetchEntityImages reads all analyzed images for one entity.
func (s *Store) FetchEntityImages(entityType string, entityID uint) ([]models.Image, error) {
	var images []models.Image
	q := s.db.Order("id ASC")
	switch entityType {
	case models.EntityTypeBarber:
		q = q.Where("barber_id = ?", entityID)
	default:
		q = q.Where("shop_id = ?", entityID)
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// PersistReviewEnrichment writes the enrichment block, conditioned on the
// review still carrying the expected prior provider and model tags (empty
// provider means not yet enriched). A lost race returns ErrStoreConflict.
func (s *Store) PersistReviewEnrichment(reviewID uint, expectedProvider, expectedModel string, e *ReviewEnrichment) error {
	namesJSON, _ := json.Marshal(e.Names)
	adjectivesJSON, _ := json.Marshal(e.Adjectives)
	now := time.Now()

	updates := map[string]interface{}{
		"sentiment":          e.Sentiment,
		"adjusted_sentiment": e.AdjustedSentiment,
		"extracted_names":    string(namesJSON),
		"best_name":          e.BestName,
		"summary":            e.Summary,
		"adjectives":         string(adjectivesJSON),
		"is_spam":            e.Moderation.IsSpam,
		"is_fake":            e.Moderation.IsFake,
		"is_attack":          e.Moderation.IsAttack,
		"is_inappropriate":   e.Moderation.IsInappropriate,
		"moderation_score":   e.Moderation.Confidence,
		"moderation_reason":  e.Moderation.Reason,
		"enriched_at":        now,
		"enriched_provider":  e.Provider,
		"enriched_model":     e.Model,
	}

	q := s.db.Model(&models.Review{}).Where("id = ?", reviewID)
	if expectedProvider == "" {
		q = q.Where("enriched_at IS NULL")
	} else {
		q = q.Where("enriched_provider = ? AND enriched_model = ?", expectedProvider, expectedModel)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStoreConflict
	}
	return nil
}

// PersistImageAnalysis is the image counterpart of PersistReviewEnrichment.
func (s *Store) PersistImageAnalysis(imageID uint, expectedProvider, expectedModel string, a *ImageAnalysis, providerName, modelID string) error {
	objectsJSON, _ := json.Marshal(a.ObjectWeights)
	now := time.Now()

	updates := map[string]interface{}{
		"object_weights":     string(objectsJSON),
		"face_count":         a.FaceCount,
		"face_score":         a.FaceScore,
		"ocr_text":           a.OCRText,
		"ocr_score":          a.OCRScore,
		"perceptual_hash":    a.PerceptualHash,
		"relevance_score":    a.Relevance,
		"authenticity_score": a.Authenticity,
		"analyzed_at":        now,
		"analyzed_provider":  providerName,
		"analyzed_model":     modelID,
	}

	q := s.db.Model(&models.Image{}).Where("id = ?", imageID)
	if expectedProvider == "" {
		q = q.Where("analyzed_at IS NULL")
	} else {
		q = q.Where("analyzed_provider = ? AND analyzed_model = ?", expectedProvider, expectedModel)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStoreConflict
	}
	return nil
}

// ReplaceTrustScore upserts the trust record for an entity, replacing every
// derived field so recomputation never drifts from partial updates.
func (s *Store) ReplaceTrustScore(record *models.TrustScore) error {
	var existing models.TrustScore
	err := s.db.Where("entity_type = ? AND entity_id = ?", record.EntityType, record.EntityID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.db.Create(record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	return s.db.Model(&existing).Select("score", "bucket", "insufficient_data", "review_count", "image_count", "computed_at").Updates(map[string]interface{}{
		"score":             record.Score,
		"bucket":            record.Bucket,
		"insufficient_data": record.InsufficientData,
		"review_count":      record.ReviewCount,
		"image_count":       record.ImageCount,
		"computed_at":       record.ComputedAt,
	}).Error
}

// ListEntityIDs returns all ids for one entity type.
func (s *Store) ListEntityIDs(entityType string) ([]uint, error) {
	var ids []uint
	var err error
	switch entityType {
	case models.EntityTypeBarber:
		err = s.db.Model(&models.Barber{}).Order("id ASC").Pluck("id", &ids).Error
	default:
		err = s.db.Model(&models.Shop{}).Order("id ASC").Pluck("id", &ids).Error
	}
	return ids, err
}

// DB exposes the underlying handle for read-only dashboard queries.
func (s *Store) DB() *gorm.DB { return s.db }
