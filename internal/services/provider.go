package services

import (
	"context"
	"errors"

	"github.com/rateyourbarber/trustengine/internal/models"
)

// Sentinel errors for the enrichment pipeline.
var (
	// ErrProviderUnavailable covers network errors, timeouts and model
	// outages. The item stays pending for a later pass.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse means the provider answered but the payload did
	// not parse into the expected shape. The item stays pending; it is
	// never silently defaulted to clean or neutral.
	ErrMalformedResponse = errors.New("provider returned malformed response")

	// ErrStoreConflict signals a lost optimistic-write race. Another worker
	// already persisted the item; callers treat it as handled.
	ErrStoreConflict = errors.New("store conflict: item already enriched")
)

// ReviewEnrichment is what a provider derives from one review.
type ReviewEnrichment struct {
	Sentiment         float64            `json:"sentiment"`
	AdjustedSentiment float64            `json:"adjusted_sentiment"`
	Names             []string           `json:"names"`
	BestName          string             `json:"best_name"`
	Summary           string             `json:"summary"`
	Adjectives        []string           `json:"adjectives"`
	Moderation        *ModerationVerdict `json:"moderation"`
	Provider          string             `json:"provider"`
	Model             string             `json:"model"`
}

// Provider is the contract every enrichment backend satisfies, whether a
// model call or the deterministic heuristics. The orchestrator treats both
// as interchangeable and records which one ran.
type Provider interface {
	Name() string
	ModelID() string
	EnrichReview(ctx context.Context, review *models.Review) (*ReviewEnrichment, error)
	Classify(ctx context.Context, text string) (*ModerationVerdict, error)
	ScoreImage(ctx context.Context, img *models.Image) (*ImageAnalysis, error)
}

// HeuristicProvider is the dependency-free fallback provider: a pure
// composition of the extraction, sentiment, moderation and image-scoring
// heuristics. It never fails and holds no state across calls.
type HeuristicProvider struct {
	extractor *NameExtractor
	scorer    *ImageScorer
}

const (
	heuristicProviderName = "heuristic"
	heuristicModelID      = "rules-v1"

	summaryCharBudget = 120
)

func NewHeuristicProvider(extraStopWords []string, trustedImageTag string) *HeuristicProvider {
	return &HeuristicProvider{
		extractor: NewNameExtractor(extraStopWords),
		scorer:    NewImageScorer(trustedImageTag),
	}
}

func (p *HeuristicProvider) Name() string    { return heuristicProviderName }
func (p *HeuristicProvider) ModelID() string { return heuristicModelID }

func (p *HeuristicProvider) EnrichReview(_ context.Context, review *models.Review) (*ReviewEnrichment, error) {
	pre := PrefilterReview(review.Text)
	text := pre.CleanText

	candidates := p.extractor.Extract(text)
	names := candidates.All()
	best := candidates.Best()
	if len(names) == 0 && review.Shop != nil && review.Shop.Name != "" {
		// No barber named; attribute to the shop so downstream consumers
		// still get something to match on.
		names = []string{review.Shop.Name}
		best = review.Shop.Name
	}

	sentiment := AnalyzeSentiment(text)
	adjectives := ExtractAdjectives(text)

	return &ReviewEnrichment{
		Sentiment:         sentiment,
		AdjustedSentiment: AdjustSentiment(sentiment, adjectives),
		Names:             names,
		BestName:          best,
		Summary:           SummarizeChars(text, summaryCharBudget),
		Adjectives:        adjectives,
		Moderation:        ModerateReview(review.Text),
		Provider:          heuristicProviderName,
		Model:             heuristicModelID,
	}, nil
}

func (p *HeuristicProvider) Classify(_ context.Context, text string) (*ModerationVerdict, error) {
	return ModerateReview(text), nil
}

func (p *HeuristicProvider) ScoreImage(_ context.Context, img *models.Image) (*ImageAnalysis, error) {
	return p.scorer.Score(img), nil
}
