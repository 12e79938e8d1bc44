package services

import (
	"time"

	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

// Trust aggregation policy. Reviews carry most of the weight; images blend
// in only when the entity has analyzed photos.
const (
	moderationAxisPenalty = 15.0
	helpfulnessScale      = 10.0
	reviewBlendWeight     = 0.8
	imageBlendWeight      = 0.2
)

// Bucket labels for the five fixed trust ranges. Boundaries are half-open
// except the top bucket, which is closed at 100.
var trustBuckets = []string{"0-20", "20-40", "40-60", "60-80", "80-100"}

// TrustBucket assigns a score in [0,100] to its display bucket.
func TrustBucket(score float64) string {
	switch {
	case score < 20:
		return trustBuckets[0]
	case score < 40:
		return trustBuckets[1]
	case score < 60:
		return trustBuckets[2]
	case score < 80:
		return trustBuckets[3]
	default:
		return trustBuckets[4]
	}
}

// ReviewCredibility computes the per-review input to trust aggregation:
// the star rating normalized to [0,100], minus a fixed penalty per triggered
// moderation axis (floored at 0), plus a helpfulness adjustment. Reviews
// with no votes get no adjustment either way.
func ReviewCredibility(r *models.Review) float64 {
	score := r.Rating / 5.0 * 100.0

	penalty := 0.0
	for _, flagged := range []bool{r.IsSpam, r.IsFake, r.IsAttack, r.IsInappropriate} {
		if flagged {
			penalty += moderationAxisPenalty
		}
	}
	score -= penalty
	if score < 0 {
		score = 0
	}

	if total := r.TotalVotes(); total > 0 {
		score += float64(r.HelpfulVotes) / float64(total) * helpfulnessScale
	}
	return score
}

// ComputeTrustScore aggregates one entity's reviews and analyzed images
// into a TrustScore record. It is a pure function of its inputs: rerunning
// it on unchanged data yields an identical record (modulo ComputedAt).
func ComputeTrustScore(entityType string, entityID uint, reviews []models.Review, images []models.Image) *models.TrustScore {
	record := &models.TrustScore{
		EntityType: entityType,
		EntityID:   entityID,
		ComputedAt: time.Now(),
	}

	var credibilitySum float64
	for i := range reviews {
		credibilitySum += ReviewCredibility(&reviews[i])
	}

	var imageSum float64
	var imageCount int
	for i := range images {
		img := &images[i]
		if !img.Analyzed() || img.RelevanceScore == nil || img.AuthenticityScore == nil {
			continue
		}
		imageSum += *img.AuthenticityScore * *img.RelevanceScore * 100.0
		imageCount++
	}

	record.ReviewCount = len(reviews)
	record.ImageCount = imageCount

	if len(reviews) == 0 && imageCount == 0 {
		record.InsufficientData = true
		record.Score = 0
		record.Bucket = TrustBucket(0)
		return record
	}

	var score float64
	switch {
	case len(reviews) > 0 && imageCount > 0:
		score = credibilitySum/float64(len(reviews))*reviewBlendWeight +
			imageSum/float64(imageCount)*imageBlendWeight
	case len(reviews) > 0:
		score = credibilitySum / float64(len(reviews))
	default:
		score = imageSum / float64(imageCount)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	record.Score = score
	record.Bucket = TrustBucket(score)
	return record
}

// TrustService recomputes and persists trust scores from stored enrichment
// state. Each entity's inputs are read once per run, so the aggregation sees
// a consistent snapshot.
type TrustService struct {
	store *Store
}

func NewTrustService(store *Store) *TrustService {
	return &TrustService{store: store}
}

// RecomputeEntity reads the entity's current enrichment state and replaces
// its trust record.
func (s *TrustService) RecomputeEntity(entityType string, entityID uint) (*models.TrustScore, error) {
	reviews, err := s.store.FetchEntityReviews(entityType, entityID)
	if err != nil {
		return nil, err
	}
	images, err := s.store.FetchEntityImages(entityType, entityID)
	if err != nil {
		return nil, err
	}

	record := ComputeTrustScore(entityType, entityID, reviews, images)
	if err := s.store.ReplaceTrustScore(record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecomputeAll recomputes every barber and shop. Per-entity failures are
// logged and skipped so one bad entity cannot abort the run.
func (s *TrustService) RecomputeAll() (int, error) {
	recomputed := 0
	for _, entityType := range []string{models.EntityTypeBarber, models.EntityTypeShop} {
		ids, err := s.store.ListEntityIDs(entityType)
		if err != nil {
			return recomputed, err
		}
		for _, id := range ids {
			if _, err := s.RecomputeEntity(entityType, id); err != nil {
				logger.Errorf("[Trust] Recompute %s %d failed: %v", entityType, id, err)
				continue
			}
			recomputed++
		}
	}
	trustRecomputes.Inc()
	return recomputed, nil
}

// BucketDistribution counts current trust records per display bucket.
func (s *TrustService) BucketDistribution(entityType string) (map[string]int64, error) {
	dist := make(map[string]int64, len(trustBuckets))
	for _, b := range trustBuckets {
		dist[b] = 0
	}

	var records []models.TrustScore
	q := s.store.DB().Model(&models.TrustScore{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	for _, r := range records {
		dist[r.Bucket]++
	}
	return dist, nil
}
