package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rateyourbarber/trustengine/internal/models"
)

// GoldenCase is one labeled review for provider benchmarking.
type GoldenCase struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Names           []string `json:"names"`
	Sentiment       float64  `json:"sentiment"`
	SummaryContains []string `json:"summary_contains"`
}

// GoldenCases is the built-in labeled dataset used to compare enrichment
// providers against each other.
var GoldenCases = []GoldenCase{
	{
		ID:              "g01",
		Text:            "Maria gave me the best fade I've ever had. She really listened to what I wanted.",
		Names:           []string{"Maria"},
		Sentiment:       0.95,
		SummaryContains: []string{"maria", "fade"},
	},
	{
		ID:              "g02",
		Text:            "Shoutout to Chris for the amazing beard trim, will definitely be back.",
		Names:           []string{"Chris"},
		Sentiment:       0.95,
		SummaryContains: []string{"chris", "beard"},
	},
	{
		ID:              "g03",
		Text:            "The place was okay, nothing special. My barber was decent but rushed.",
		Names:           []string{},
		Sentiment:       0.6,
		SummaryContains: []string{"okay", "barber"},
	},
	{
		ID:              "g04",
		Text:            "Terrible experience. Worst haircut of my life and the chair was dirty.",
		Names:           []string{},
		Sentiment:       0.05,
		SummaryContains: []string{"terrible", "haircut"},
	},
	{
		ID:              "g05",
		Text:            "I asked for Tony and he did not disappoint. Great lineup, great conversation.",
		Names:           []string{"Tony"},
		Sentiment:       0.95,
		SummaryContains: []string{"tony", "great"},
	},
	{
		ID:              "g06",
		Text:            "Booked with James last Tuesday. He was fine, the cut held up alright for a week.",
		Names:           []string{"James"},
		Sentiment:       0.6,
		SummaryContains: []string{"james", "cut"},
	},
	{
		ID:              "g07",
		Text:            "My appointment with Derek was awful. He barely spoke and butchered my sides.",
		Names:           []string{"Derek"},
		Sentiment:       0.05,
		SummaryContains: []string{"derek", "sides"},
	},
	{
		ID:              "g08",
		Text:            "Walked in without an appointment and Luis squeezed me in. Excellent taper, love this spot.",
		Names:           []string{"Luis"},
		Sentiment:       0.95,
		SummaryContains: []string{"luis", "taper"},
	},
	{
		ID:              "g09",
		Text:            "Thanks to Angela for fixing the mess another shop left. She is a magician with scissors.",
		Names:           []string{"Angela"},
		Sentiment:       0.5,
		SummaryContains: []string{"angela", "scissors"},
	},
	{
		ID:              "g10",
		Text:            "Meh. In and out in ten minutes, cut was alright, nothing to write home about.",
		Names:           []string{},
		Sentiment:       0.6,
		SummaryContains: []string{"cut", "alright"},
	},
}

const (
	benchmarkSentimentTolerance = 0.3
	benchmarkSummaryMinLength   = 20
)

type BenchmarkReport struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Errors    int    `json:"errors"`

	NameCorrect   int `json:"name_correct"`
	NamePartial   int `json:"name_partial"`
	NameIncorrect int `json:"name_incorrect"`

	SentimentCorrect   int `json:"sentiment_correct"`
	SentimentClose     int `json:"sentiment_close"`
	SentimentIncorrect int `json:"sentiment_incorrect"`

	SummaryGood       int `json:"summary_good"`
	SummaryAcceptable int `json:"summary_acceptable"`
	SummaryPoor       int `json:"summary_poor"`

	AvgLatencyMs float64 `json:"avg_latency_ms"`
	P95LatencyMs float64 `json:"p95_latency_ms"`

	NameScore      float64 `json:"name_score"`
	SentimentScore float64 `json:"sentiment_score"`
	SummaryScore   float64 `json:"summary_score"`
	OverallScore   float64 `json:"overall_score"`
}

// RunBenchmark enriches every golden case through the provider and grades
// the output against the labels.
func RunBenchmark(ctx context.Context, provider Provider, cases []GoldenCase) (*BenchmarkReport, error) {
	if len(cases) == 0 {
		cases = GoldenCases
	}

	report := &BenchmarkReport{
		Provider: provider.Name(),
		Model:    provider.ModelID(),
		Total:    len(cases),
	}

	var latencies []float64
	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		review := &models.Review{Text: gc.Text}
		start := time.Now()
		enrichment, err := provider.EnrichReview(ctx, review)
		if err != nil {
			report.Errors++
			continue
		}
		latencies = append(latencies, float64(time.Since(start).Milliseconds()))
		report.Processed++

		gradeNames(report, enrichment.Names, gc.Names)
		gradeSentiment(report, enrichment.Sentiment, gc.Sentiment)
		gradeSummary(report, enrichment.Summary, gc.SummaryContains, gc.Text)
	}

	if len(latencies) > 0 {
		sum := 0.0
		for _, l := range latencies {
			sum += l
		}
		report.AvgLatencyMs = round3(sum / float64(len(latencies)))
		sort.Float64s(latencies)
		idx := int(float64(len(latencies)) * 0.95)
		if idx >= len(latencies) {
			idx = len(latencies) - 1
		}
		report.P95LatencyMs = latencies[idx]
	}

	scoreReport(report)
	return report, nil
}

func gradeNames(r *BenchmarkReport, got, want []string) {
	if len(got) == len(want) && sameStrings(got, want) {
		r.NameCorrect++
		return
	}
	if anyOverlap(got, want) {
		r.NamePartial++
		return
	}
	r.NameIncorrect++
}

func gradeSentiment(r *BenchmarkReport, got, want float64) {
	switch {
	case got == want:
		r.SentimentCorrect++
	case math.Abs(got-want) <= benchmarkSentimentTolerance:
		r.SentimentClose++
	default:
		r.SentimentIncorrect++
	}
}

func gradeSummary(r *BenchmarkReport, summary string, keywords []string, original string) {
	if summary == "" {
		r.SummaryPoor++
		return
	}

	lower := strings.ToLower(summary)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	truncated := strings.HasPrefix(strings.ToLower(original), strings.TrimSpace(lower))

	switch {
	case matches >= 2 && !truncated:
		r.SummaryGood++
	case matches >= 1 || len(summary) >= benchmarkSummaryMinLength:
		r.SummaryAcceptable++
	default:
		r.SummaryPoor++
	}
}

// scoreReport rolls the per-axis tallies into 0-100 scores. Partial name
// matches earn half credit, close sentiment earns 0.7.
func scoreReport(r *BenchmarkReport) {
	nameTotal := r.NameCorrect + r.NamePartial + r.NameIncorrect
	if nameTotal > 0 {
		r.NameScore = round3((float64(r.NameCorrect) + float64(r.NamePartial)*0.5) / float64(nameTotal) * 100)
	}
	sentTotal := r.SentimentCorrect + r.SentimentClose + r.SentimentIncorrect
	if sentTotal > 0 {
		r.SentimentScore = round3((float64(r.SentimentCorrect) + float64(r.SentimentClose)*0.7) / float64(sentTotal) * 100)
	}
	sumTotal := r.SummaryGood + r.SummaryAcceptable + r.SummaryPoor
	if sumTotal > 0 {
		r.SummaryScore = round3((float64(r.SummaryGood) + float64(r.SummaryAcceptable)*0.5) / float64(sumTotal) * 100)
	}
	r.OverallScore = round3((r.NameScore + r.SentimentScore + r.SummaryScore) / 3)
}

// Print writes a human-readable report.
func (r *BenchmarkReport) Print(w io.Writer) {
	fmt.Fprintf(w, "Provider: %s (%s)\n", r.Provider, r.Model)
	fmt.Fprintf(w, "Processed: %d/%d (errors: %d)\n\n", r.Processed, r.Total, r.Errors)
	fmt.Fprintf(w, "Name extraction: %d correct, %d partial, %d incorrect\n", r.NameCorrect, r.NamePartial, r.NameIncorrect)
	fmt.Fprintf(w, "Sentiment:       %d correct, %d close, %d incorrect\n", r.SentimentCorrect, r.SentimentClose, r.SentimentIncorrect)
	fmt.Fprintf(w, "Summary:         %d good, %d acceptable, %d poor\n\n", r.SummaryGood, r.SummaryAcceptable, r.SummaryPoor)
	fmt.Fprintf(w, "Avg latency: %.0fms  P95: %.0fms\n\n", r.AvgLatencyMs, r.P95LatencyMs)
	fmt.Fprintf(w, "Scores: names %.1f%%, sentiment %.1f%%, summary %.1f%%\n", r.NameScore, r.SentimentScore, r.SummaryScore)
	fmt.Fprintf(w, "Overall: %.1f%%\n", r.OverallScore)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
