package services

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
)

func TestRunBenchmarkHeuristic(t *testing.T) {
	provider := NewHeuristicProvider(nil, "")

	report, err := RunBenchmark(context.Background(), provider, nil)
	if err != nil {
		t.Fatalf("RunBenchmark: %v", err)
	}

	if report.Provider != "heuristic" || report.Model != "rules-v1" {
		t.Fatalf("provider = %s/%s", report.Provider, report.Model)
	}
	if report.Processed != len(GoldenCases) || report.Errors != 0 {
		t.Fatalf("processed = %d errors = %d", report.Processed, report.Errors)
	}

	// The rule provider is deterministic, so the tallies are too.
	if report.SentimentCorrect != len(GoldenCases) {
		t.Fatalf("sentiment correct = %d, want %d", report.SentimentCorrect, len(GoldenCases))
	}
	if report.NameCorrect != 1 || report.NamePartial != 6 || report.NameIncorrect != 3 {
		t.Fatalf("names = %d/%d/%d, want 1/6/3",
			report.NameCorrect, report.NamePartial, report.NameIncorrect)
	}
	if report.SummaryAcceptable != len(GoldenCases) {
		t.Fatalf("summary acceptable = %d, want %d", report.SummaryAcceptable, len(GoldenCases))
	}

	if math.Abs(report.NameScore-40) > 0.001 {
		t.Fatalf("name score = %v, want 40", report.NameScore)
	}
	if math.Abs(report.SentimentScore-100) > 0.001 {
		t.Fatalf("sentiment score = %v, want 100", report.SentimentScore)
	}
	if math.Abs(report.SummaryScore-50) > 0.001 {
		t.Fatalf("summary score = %v, want 50", report.SummaryScore)
	}
	if math.Abs(report.OverallScore-63.333) > 0.001 {
		t.Fatalf("overall score = %v, want 63.333", report.OverallScore)
	}
}

func TestRunBenchmarkCountsProviderErrors(t *testing.T) {
	report, err := RunBenchmark(context.Background(), &brokenProvider{err: ErrProviderUnavailable}, GoldenCases[:3])
	if err != nil {
		t.Fatalf("RunBenchmark: %v", err)
	}
	if report.Errors != 3 || report.Processed != 0 {
		t.Fatalf("errors = %d processed = %d, want 3/0", report.Errors, report.Processed)
	}
	if report.OverallScore != 0 {
		t.Fatalf("overall score = %v, want 0", report.OverallScore)
	}
}

func TestGradeSentiment(t *testing.T) {
	cases := []struct {
		got, want float64
		bucket    string
	}{
		{0.95, 0.95, "correct"},
		{0.6, 0.5, "close"},
		{0.8, 0.5, "close"},
		{0.95, 0.05, "incorrect"},
	}
	for _, c := range cases {
		r := &BenchmarkReport{}
		gradeSentiment(r, c.got, c.want)
		got := "incorrect"
		if r.SentimentCorrect == 1 {
			got = "correct"
		} else if r.SentimentClose == 1 {
			got = "close"
		}
		if got != c.bucket {
			t.Errorf("gradeSentiment(%v, %v) = %s, want %s", c.got, c.want, got, c.bucket)
		}
	}
}

func TestGradeNames(t *testing.T) {
	r := &BenchmarkReport{}
	gradeNames(r, []string{"Maria"}, []string{"Maria"})
	gradeNames(r, []string{"Chris", "Shoutout"}, []string{"Chris"})
	gradeNames(r, []string{"My"}, []string{})
	if r.NameCorrect != 1 || r.NamePartial != 1 || r.NameIncorrect != 1 {
		t.Fatalf("names = %d/%d/%d, want 1/1/1", r.NameCorrect, r.NamePartial, r.NameIncorrect)
	}
}

func TestGradeSummary(t *testing.T) {
	original := "Maria gave me the best fade I've ever had."

	r := &BenchmarkReport{}
	gradeSummary(r, "Best fade in town, courtesy of Maria.", []string{"maria", "fade"}, original)
	if r.SummaryGood != 1 {
		t.Fatalf("rephrased summary with both keywords should grade good, got %+v", r)
	}

	r = &BenchmarkReport{}
	gradeSummary(r, original, []string{"maria", "fade"}, original)
	if r.SummaryAcceptable != 1 {
		t.Fatalf("verbatim truncation should grade acceptable, got %+v", r)
	}

	r = &BenchmarkReport{}
	gradeSummary(r, "", []string{"maria"}, original)
	if r.SummaryPoor != 1 {
		t.Fatalf("empty summary should grade poor, got %+v", r)
	}
}

func TestBenchmarkReportPrint(t *testing.T) {
	report := &BenchmarkReport{Provider: "heuristic", Model: "rules-v1", Total: 10, Processed: 10, OverallScore: 63.333}
	var buf bytes.Buffer
	report.Print(&buf)
	out := buf.String()
	if !strings.Contains(out, "heuristic") || !strings.Contains(out, "63.3%") {
		t.Fatalf("unexpected report output:\n%s", out)
	}
}
