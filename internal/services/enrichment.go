package services

import (
	"context"
	"errors"

	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

// Enrichment item kinds.
const (
	KindReview = "review"
	KindImage  = "image"
)

// PassSummary reports the outcome counts of one enrichment pass.
type PassSummary struct {
	Kind      string `json:"kind"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Selected  int    `json:"selected"`
	Enriched  int    `json:"enriched"`
	Conflicts int    `json:"conflicts"`
	Failed    int    `json:"failed"`
	Malformed int    `json:"malformed"`
	Reenrich  bool   `json:"reenrich"`
}

// EnrichmentService is the orchestrator: it selects pending items, invokes
// the configured provider and persists results through conditional writes,
// so an item is enriched at most once per pass even under concurrent runs.
// A crash mid-pass loses nothing; unpersisted items stay pending.
type EnrichmentService struct {
	store     *Store
	provider  Provider
	batchSize int
}

func NewEnrichmentService(store *Store, provider Provider, batchSize int) *EnrichmentService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &EnrichmentService{store: store, provider: provider, batchSize: batchSize}
}

// Provider returns the provider this orchestrator runs items through.
func (s *EnrichmentService) Provider() Provider { return s.provider }

// RunPass processes one batch of pending items of the given kind. With
// reenrich set, items whose provider tag differs from the current provider
// are selected instead, and the write is conditioned on that prior tag.
// Per-item failures never abort the pass.
func (s *EnrichmentService) RunPass(ctx context.Context, kind string, reenrich bool) (*PassSummary, error) {
	summary := &PassSummary{
		Kind:     kind,
		Provider: s.provider.Name(),
		Model:    s.provider.ModelID(),
		Reenrich: reenrich,
	}

	var err error
	switch kind {
	case KindImage:
		err = s.runImagePass(ctx, summary, reenrich)
	default:
		summary.Kind = KindReview
		err = s.runReviewPass(ctx, summary, reenrich)
	}
	if err != nil {
		return summary, err
	}

	logger.Infof("[Enrichment] Pass complete: kind=%s provider=%s selected=%d enriched=%d conflicts=%d failed=%d malformed=%d",
		summary.Kind, summary.Provider, summary.Selected, summary.Enriched, summary.Conflicts, summary.Failed, summary.Malformed)
	LogInfo("enrichment", "pass", "enrichment pass complete", summary)
	return summary, nil
}

func (s *EnrichmentService) runReviewPass(ctx context.Context, summary *PassSummary, reenrich bool) error {
	reviews, err := s.store.FetchPendingReviews(s.provider.Name(), s.provider.ModelID(), reenrich, s.batchSize)
	if err != nil {
		return err
	}
	summary.Selected = len(reviews)

	for i := range reviews {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		review := &reviews[i]

		enrichment, err := s.provider.EnrichReview(ctx, review)
		if err != nil {
			s.countFailure(summary, KindReview, err)
			continue
		}

		expectedProvider, expectedModel := "", ""
		if reenrich {
			expectedProvider, expectedModel = review.EnrichedProvider, review.EnrichedModel
		}
		if err := s.store.PersistReviewEnrichment(review.ID, expectedProvider, expectedModel, enrichment); err != nil {
			if errors.Is(err, ErrStoreConflict) {
				// Another worker won the race; the item is handled.
				summary.Conflicts++
				enrichmentOutcomes.WithLabelValues(KindReview, outcomeConflict).Inc()
				continue
			}
			summary.Failed++
			enrichmentOutcomes.WithLabelValues(KindReview, outcomeFailed).Inc()
			logger.Errorf("[Enrichment] Persist review %d failed: %v", review.ID, err)
			continue
		}
		summary.Enriched++
		enrichmentOutcomes.WithLabelValues(KindReview, outcomeEnriched).Inc()
	}
	return nil
}

func (s *EnrichmentService) runImagePass(ctx context.Context, summary *PassSummary, reenrich bool) error {
	images, err := s.store.FetchPendingImages(s.provider.Name(), s.provider.ModelID(), reenrich, s.batchSize)
	if err != nil {
		return err
	}
	summary.Selected = len(images)

	for i := range images {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		img := &images[i]

		analysis, err := s.provider.ScoreImage(ctx, img)
		if err != nil {
			s.countFailure(summary, KindImage, err)
			continue
		}

		expectedProvider, expectedModel := "", ""
		if reenrich {
			expectedProvider, expectedModel = img.AnalyzedProvider, img.AnalyzedModel
		}
		if err := s.store.PersistImageAnalysis(img.ID, expectedProvider, expectedModel, analysis, s.provider.Name(), s.provider.ModelID()); err != nil {
			if errors.Is(err, ErrStoreConflict) {
				summary.Conflicts++
				enrichmentOutcomes.WithLabelValues(KindImage, outcomeConflict).Inc()
				continue
			}
			summary.Failed++
			enrichmentOutcomes.WithLabelValues(KindImage, outcomeFailed).Inc()
			logger.Errorf("[Enrichment] Persist image %d failed: %v", img.ID, err)
			continue
		}
		summary.Enriched++
		enrichmentOutcomes.WithLabelValues(KindImage, outcomeEnriched).Inc()
	}
	return nil
}

// countFailure classifies a provider error. Malformed responses are logged
// separately so a misbehaving model is distinguishable from an unreachable
// one; in both cases the item stays pending.
func (s *EnrichmentService) countFailure(summary *PassSummary, kind string, err error) {
	if errors.Is(err, ErrMalformedResponse) {
		summary.Malformed++
		enrichmentOutcomes.WithLabelValues(kind, outcomeMalformed).Inc()
		providerFailures.WithLabelValues(s.provider.Name(), failureMalformed).Inc()
		logger.Warnf("[Enrichment] Provider %s returned malformed payload: %v", s.provider.Name(), err)
		return
	}
	summary.Failed++
	enrichmentOutcomes.WithLabelValues(kind, outcomeFailed).Inc()
	providerFailures.WithLabelValues(s.provider.Name(), failureUnavailable).Inc()
	logger.Warnf("[Enrichment] Provider %s call failed: %v", s.provider.Name(), err)
}

// RunFullPass enriches pending reviews then images.
func (s *EnrichmentService) RunFullPass(ctx context.Context, reenrich bool) ([]*PassSummary, error) {
	var summaries []*PassSummary
	for _, kind := range []string{KindReview, KindImage} {
		summary, err := s.RunPass(ctx, kind, reenrich)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ProcessItem runs one queued item through the provider. The item is
// re-read first; a lost write race means another worker handled it, which
// is success from the queue's point of view.
func (s *EnrichmentService) ProcessItem(ctx context.Context, task *EnrichTask) error {
	switch task.Kind {
	case KindImage:
		var img models.Image
		if err := s.store.DB().First(&img, task.ItemID).Error; err != nil {
			return err
		}
		if img.Analyzed() && !task.Reenrich {
			return nil
		}
		analysis, err := s.provider.ScoreImage(ctx, &img)
		if err != nil {
			return err
		}
		expectedProvider, expectedModel := "", ""
		if task.Reenrich {
			expectedProvider, expectedModel = img.AnalyzedProvider, img.AnalyzedModel
		}
		err = s.store.PersistImageAnalysis(img.ID, expectedProvider, expectedModel, analysis, s.provider.Name(), s.provider.ModelID())
		if errors.Is(err, ErrStoreConflict) {
			return nil
		}
		return err
	default:
		var review models.Review
		if err := s.store.DB().Preload("Shop").First(&review, task.ItemID).Error; err != nil {
			return err
		}
		if review.Enriched() && !task.Reenrich {
			return nil
		}
		enrichment, err := s.provider.EnrichReview(ctx, &review)
		if err != nil {
			return err
		}
		expectedProvider, expectedModel := "", ""
		if task.Reenrich {
			expectedProvider, expectedModel = review.EnrichedProvider, review.EnrichedModel
		}
		err = s.store.PersistReviewEnrichment(review.ID, expectedProvider, expectedModel, enrichment)
		if errors.Is(err, ErrStoreConflict) {
			return nil
		}
		return err
	}
}

// EnqueuePending pushes every pending item onto the task queue instead of
// processing inline, for deployments running dedicated workers.
func (s *EnrichmentService) EnqueuePending(queue TaskQueue, reenrich bool) (int, error) {
	enqueued := 0

	reviews, err := s.store.FetchPendingReviews(s.provider.Name(), s.provider.ModelID(), reenrich, s.batchSize)
	if err != nil {
		return 0, err
	}
	for i := range reviews {
		if err := queue.Enqueue(&EnrichTask{Kind: KindReview, ItemID: reviews[i].ID, Reenrich: reenrich}); err != nil {
			return enqueued, err
		}
		enqueued++
	}

	images, err := s.store.FetchPendingImages(s.provider.Name(), s.provider.ModelID(), reenrich, s.batchSize)
	if err != nil {
		return enqueued, err
	}
	for i := range images {
		if err := queue.Enqueue(&EnrichTask{Kind: KindImage, ItemID: images[i].ID, Reenrich: reenrich}); err != nil {
			return enqueued, err
		}
		enqueued++
	}

	return enqueued, nil
}

// EnrichmentStatus is the pending/enriched breakdown surfaced by the status
// endpoint and the benchmark tooling.
type EnrichmentStatus struct {
	TotalReviews    int64            `json:"total_reviews"`
	EnrichedReviews int64            `json:"enriched_reviews"`
	PendingReviews  int64            `json:"pending_reviews"`
	TotalImages     int64            `json:"total_images"`
	AnalyzedImages  int64            `json:"analyzed_images"`
	PendingImages   int64            `json:"pending_images"`
	ByProvider      map[string]int64 `json:"by_provider"`
	OldestPendingAt *string          `json:"oldest_pending_at"`
}

// Status reads current enrichment coverage. The worst failure mode of the
// pipeline is an item staying pending forever, which this surfaces.
func (s *EnrichmentService) Status() (*EnrichmentStatus, error) {
	db := s.store.DB()
	status := &EnrichmentStatus{ByProvider: make(map[string]int64)}

	if err := db.Model(&models.Review{}).Count(&status.TotalReviews).Error; err != nil {
		return nil, err
	}
	db.Model(&models.Review{}).Where("enriched_at IS NOT NULL").Count(&status.EnrichedReviews)
	status.PendingReviews = status.TotalReviews - status.EnrichedReviews

	db.Model(&models.Image{}).Count(&status.TotalImages)
	db.Model(&models.Image{}).Where("analyzed_at IS NOT NULL").Count(&status.AnalyzedImages)
	status.PendingImages = status.TotalImages - status.AnalyzedImages

	type providerCount struct {
		Provider string
		Model    string
		Count    int64
	}
	var counts []providerCount
	db.Model(&models.Review{}).
		Select("enriched_provider AS provider, enriched_model AS model, COUNT(*) AS count").
		Where("enriched_at IS NOT NULL").
		Group("enriched_provider, enriched_model").
		Scan(&counts)
	for _, c := range counts {
		status.ByProvider[c.Provider+"/"+c.Model] = c.Count
	}

	var oldest models.Review
	if err := db.Where("enriched_at IS NULL").Order("created_at ASC").First(&oldest).Error; err == nil {
		ts := oldest.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		status.OldestPendingAt = &ts
	}

	return status, nil
}
