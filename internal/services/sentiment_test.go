package services

import (
	"strings"
	"testing"
)

func TestAnalyzeSentimentClasses(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"I love this place, best cut ever", SentimentPositive},
		{"It was okay, nothing special", SentimentNeutral},
		{"Worst haircut of my life", SentimentNegative},
		{"They cut my hair", SentimentDefault},
		{"", SentimentDefault},
	}
	for _, tt := range tests {
		if got := AnalyzeSentiment(tt.text); got != tt.want {
			t.Errorf("AnalyzeSentiment(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAnalyzeSentimentLastClassWins(t *testing.T) {
	// The class checks run positive, neutral, negative in order, each
	// overwriting the previous value.
	if got := AnalyzeSentiment("Great shop but the worst service"); got != SentimentNegative {
		t.Errorf("mixed positive+negative = %v, want %v", got, SentimentNegative)
	}
	if got := AnalyzeSentiment("Great cut, okay service"); got != SentimentNeutral {
		t.Errorf("mixed positive+neutral = %v, want %v", got, SentimentNeutral)
	}
}

func TestSummarizeChars(t *testing.T) {
	short := "Nice fade."
	if got := SummarizeChars(short, 120); got != short {
		t.Errorf("short text must pass through, got %q", got)
	}

	long := strings.Repeat("a", 200)
	got := SummarizeChars(long, 120)
	if len([]rune(got)) != 120 {
		t.Errorf("truncated summary length = %d, want 120", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated summary must end with ellipsis marker: %q", got)
	}
}

func TestSummarizeWords(t *testing.T) {
	words := make([]string, 30)
	for i := range words {
		words[i] = "word"
	}
	got := SummarizeWords(strings.Join(words, " "), 20)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated word summary must end with ellipsis: %q", got)
	}
	if n := len(strings.Fields(got)); n != 20 {
		t.Errorf("word summary has %d words, want 20", n)
	}

	if got := SummarizeWords("just a few words", 20); got != "just a few words" {
		t.Errorf("short word summary must pass through, got %q", got)
	}
}

func TestExtractAdjectivesAndAdjust(t *testing.T) {
	adjs := ExtractAdjectives("Skilled and friendly barber, a bit slow though")
	want := map[string]bool{"skilled": true, "friendly": true, "slow": true}
	for _, a := range adjs {
		if !want[a] {
			t.Errorf("unexpected adjective %q", a)
		}
		delete(want, a)
	}
	if len(want) != 0 {
		t.Errorf("missing adjectives: %v", want)
	}

	adjusted := AdjustSentiment(0.5, adjs)
	// +0.05 twice, -0.04 once
	if diff := adjusted - 0.56; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("adjusted sentiment = %v, want 0.56", adjusted)
	}

	if got := AdjustSentiment(0.98, []string{"skilled", "friendly"}); got != 1 {
		t.Errorf("adjusted sentiment must clamp at 1, got %v", got)
	}
	if got := AdjustSentiment(0.02, []string{"rude", "awful", "terrible"}); got != 0 {
		t.Errorf("adjusted sentiment must clamp at 0, got %v", got)
	}
}
