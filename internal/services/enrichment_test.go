package services

import (
	"context"
	"testing"

	"github.com/rateyourbarber/trustengine/internal/models"
)

// brokenProvider simulates a model backend returning unusable payloads.
type brokenProvider struct {
	err error
}

func (p *brokenProvider) Name() string    { return "broken" }
func (p *brokenProvider) ModelID() string { return "broken-v0" }
func (p *brokenProvider) EnrichReview(context.Context, *models.Review) (*ReviewEnrichment, error) {
	return nil, p.err
}
func (p *brokenProvider) Classify(context.Context, string) (*ModerationVerdict, error) {
	return nil, p.err
}
func (p *brokenProvider) ScoreImage(context.Context, *models.Image) (*ImageAnalysis, error) {
	return nil, p.err
}

func TestRunPassEnrichesPendingReviews(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	shop := models.Shop{Name: "Fade Factory"}
	db.Create(&shop)
	db.Create(&models.Review{ShopID: shop.ID, Text: "Shoutout to Maria for the perfect cut!", Rating: 5})
	db.Create(&models.Review{ShopID: shop.ID, Text: "BUY NOW!!!!!! http://example.com", Rating: 5})

	svc := NewEnrichmentService(store, NewHeuristicProvider(nil, ""), 100)
	summary, err := svc.RunPass(context.Background(), KindReview, false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if summary.Selected != 2 || summary.Enriched != 2 {
		t.Errorf("summary = %+v, want 2 selected and enriched", summary)
	}

	var reviews []models.Review
	db.Order("id ASC").Find(&reviews)
	for _, r := range reviews {
		if !r.Enriched() {
			t.Errorf("review %d not enriched", r.ID)
		}
	}
	if !reviews[1].IsSpam || !reviews[1].IsAttack {
		t.Errorf("spammy review flags not persisted: %+v", reviews[1])
	}

	// The pass is resumable and idempotent: nothing left to select.
	again, err := svc.RunPass(context.Background(), KindReview, false)
	if err != nil {
		t.Fatalf("second RunPass: %v", err)
	}
	if again.Selected != 0 {
		t.Errorf("second pass selected %d items, want 0", again.Selected)
	}
}

func TestRunPassMalformedProviderLeavesPending(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	review := models.Review{ShopID: 1, Text: "a perfectly ordinary review text", Rating: 4}
	db.Create(&review)

	svc := NewEnrichmentService(store, &brokenProvider{err: ErrMalformedResponse}, 100)
	summary, err := svc.RunPass(context.Background(), KindReview, false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if summary.Malformed != 1 || summary.Enriched != 0 {
		t.Errorf("summary = %+v, want 1 malformed, 0 enriched", summary)
	}

	var stored models.Review
	db.First(&stored, review.ID)
	if stored.EnrichedAt != nil {
		t.Errorf("malformed response must leave the enrichment timestamp unset")
	}
}

func TestRunPassUnavailableProviderLeavesPending(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	db.Create(&models.Review{ShopID: 1, Text: "another ordinary review text", Rating: 4})

	svc := NewEnrichmentService(store, &brokenProvider{err: ErrProviderUnavailable}, 100)
	summary, err := svc.RunPass(context.Background(), KindReview, false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}

	status, err := svc.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.PendingReviews != 1 {
		t.Errorf("pending reviews = %d, want 1", status.PendingReviews)
	}
	if status.OldestPendingAt == nil {
		t.Errorf("oldest pending timestamp must be surfaced")
	}
}

func TestRunPassImageKind(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	shopID := uint(1)
	db.Create(&models.Image{ShopID: &shopID, URL: "https://cdn.example.com/barber-chair.jpg", Source: models.ImageSourceDirectory})

	svc := NewEnrichmentService(store, NewHeuristicProvider(nil, ""), 100)
	summary, err := svc.RunPass(context.Background(), KindImage, false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if summary.Enriched != 1 {
		t.Errorf("summary = %+v, want 1 analyzed image", summary)
	}

	var img models.Image
	db.First(&img)
	if !img.Analyzed() || img.RelevanceScore == nil {
		t.Errorf("image analysis not persisted: %+v", img)
	}
	if img.AnalyzedProvider != "heuristic" {
		t.Errorf("analyzed provider = %q", img.AnalyzedProvider)
	}
}

func TestRunPassLostRaceCountsAsConflict(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	review := models.Review{ShopID: 1, Text: "text long enough to pass moderation", Rating: 4}
	db.Create(&review)

	// Another worker enriches the review between selection and persist.
	racer := &racingProvider{store: store, reviewID: review.ID}
	svc := NewEnrichmentService(store, racer, 100)
	summary, err := svc.RunPass(context.Background(), KindReview, false)
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if summary.Conflicts != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want the lost race counted as conflict", summary)
	}
}

// racingProvider persists the review itself before returning, so the
// orchestrator's own conditional write must lose.
type racingProvider struct {
	store    *Store
	reviewID uint
}

func (p *racingProvider) Name() string    { return "heuristic" }
func (p *racingProvider) ModelID() string { return "rules-v1" }
func (p *racingProvider) EnrichReview(ctx context.Context, r *models.Review) (*ReviewEnrichment, error) {
	e := &ReviewEnrichment{
		Moderation: &ModerationVerdict{Reason: "clean review", Confidence: 0.6},
		Provider:   "heuristic",
		Model:      "rules-v1",
	}
	if err := p.store.PersistReviewEnrichment(p.reviewID, "", "", e); err != nil {
		return nil, err
	}
	return e, nil
}
func (p *racingProvider) Classify(context.Context, string) (*ModerationVerdict, error) {
	return ModerateReview(""), nil
}
func (p *racingProvider) ScoreImage(context.Context, *models.Image) (*ImageAnalysis, error) {
	return &ImageAnalysis{}, nil
}
