package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/rateyourbarber/trustengine/internal/models"
)

// Image scoring policy weights. A vision-model provider replaces the whole
// scoring function; the heuristic fallback keeps these defaults.
const (
	WeightObject     = 0.60
	WeightFace       = 0.15
	WeightProvenance = 0.15
	WeightUniqueness = 0.10

	UniquenessStandIn = 0.05

	ProvenanceTrusted = 0.25
	ProvenanceCrawled = 0.05
)

// ImageAnalysis carries the raw detection signals plus the composed scores.
// When ingestion supplies no detections, the heuristic derives stand-ins
// from the URL and source tag.
type ImageAnalysis struct {
	ObjectWeights  map[string]float64 `json:"objects"`
	FaceCount      int                `json:"face_count"`
	FaceScore      float64            `json:"face_score"`
	OCRText        string             `json:"ocr_text"`
	OCRScore       float64            `json:"ocr_score"`
	PerceptualHash string             `json:"p_hash"`
	Provenance     float64            `json:"provenance_score"`
	Relevance      float64            `json:"relevance_score"`
	Authenticity   float64            `json:"authenticity_score"`
}

// ImageScorer composes relevance and authenticity from detection signals.
// The trusted source tag is configurable; everything else is fixed policy.
type ImageScorer struct {
	trustedSourceTag string
}

func NewImageScorer(trustedSourceTag string) *ImageScorer {
	if trustedSourceTag == "" {
		trustedSourceTag = models.ImageSourceDirectory
	}
	return &ImageScorer{trustedSourceTag: trustedSourceTag}
}

// Score produces the analysis for an image. Detection stand-ins are
// deterministic functions of the URL, so repeated runs agree.
func (s *ImageScorer) Score(img *models.Image) *ImageAnalysis {
	analysis := &ImageAnalysis{
		Provenance:     s.provenanceFor(img.Source),
		PerceptualHash: fmt.Sprintf("phash-%d", img.ID),
	}
	s.fillStandInDetections(analysis, img.URL)
	s.compose(analysis)
	return analysis
}

// ScoreSignals composes scores from externally supplied detections, for
// providers that ran a real vision model but reuse the default weighting.
func (s *ImageScorer) ScoreSignals(img *models.Image, analysis *ImageAnalysis) *ImageAnalysis {
	analysis.Provenance = s.provenanceFor(img.Source)
	if analysis.PerceptualHash == "" {
		analysis.PerceptualHash = fmt.Sprintf("phash-%d", img.ID)
	}
	s.compose(analysis)
	return analysis
}

func (s *ImageScorer) provenanceFor(source string) float64 {
	if source == s.trustedSourceTag {
		return ProvenanceTrusted
	}
	return ProvenanceCrawled
}

func (s *ImageScorer) fillStandInDetections(analysis *ImageAnalysis, url string) {
	lower := strings.ToLower(url)
	objects := map[string]float64{}

	switch {
	case strings.Contains(lower, "barber") || strings.Contains(lower, "shop") || strings.Contains(lower, "hair"):
		objects["barber_chair"] = 0.9
		objects["scissors"] = 0.3
		analysis.FaceCount = 1
		analysis.FaceScore = 0.12
	case strings.Contains(lower, "landscape") || strings.Contains(lower, "mountain"):
		objects["landscape"] = 0.95
	default:
		objects["unknown"] = 0.1
	}

	analysis.ObjectWeights = objects
}

func (s *ImageScorer) compose(analysis *ImageAnalysis) {
	objectScore := 0.0
	for _, w := range analysis.ObjectWeights {
		objectScore += w
	}
	if objectScore > 1 {
		objectScore = 1
	}

	relevance := objectScore*WeightObject +
		analysis.FaceScore*WeightFace +
		analysis.Provenance*WeightProvenance +
		UniquenessStandIn*WeightUniqueness
	if relevance > 1 {
		relevance = 1
	}

	authenticity := relevance * (1 + analysis.Provenance)
	if authenticity > 1 {
		authenticity = 1
	}

	analysis.Relevance = round3(relevance)
	analysis.Authenticity = round3(authenticity)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
