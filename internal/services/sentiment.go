package services

import (
	"regexp"
	"strings"
)

// Sentiment values per word class. The class checks run in a fixed order
// (positive, neutral, negative) with each match overwriting the previous
// value, so a review containing both "great" and "worst" scores negative.
const (
	SentimentDefault  = 0.5
	SentimentPositive = 0.95
	SentimentNeutral  = 0.6
	SentimentNegative = 0.05
)

var (
	positiveWords = regexp.MustCompile(`\b(love|excellent|great|best|amazing|awesome)\b`)
	neutralWords  = regexp.MustCompile(`\b(okay|fine|decent|alright|meh)\b`)
	negativeWords = regexp.MustCompile(`\b(bad|terrible|awful|worst|hate)\b`)
)

// AnalyzeSentiment scores the overall tone of a review in [0,1].
func AnalyzeSentiment(text string) float64 {
	lower := strings.ToLower(text)

	sentiment := SentimentDefault
	if positiveWords.MatchString(lower) {
		sentiment = SentimentPositive
	}
	if neutralWords.MatchString(lower) {
		sentiment = SentimentNeutral
	}
	if negativeWords.MatchString(lower) {
		sentiment = SentimentNegative
	}
	return sentiment
}

// Adjective lexicon used for descriptive-term extraction. Positive terms
// nudge the adjusted sentiment up, negative terms nudge it down.
var (
	positiveAdjectives = []string{
		"amazing", "excellent", "great", "perfect", "fantastic", "skilled",
		"talented", "professional", "clean", "friendly", "fast", "affordable",
		"patient", "careful", "quick", "precise", "crisp", "detailed",
	}
	negativeAdjectives = []string{
		"rude", "bad", "terrible", "awful", "mediocre", "slow", "expensive",
	}
	neutralAdjectives = []string{
		"decent", "ok", "okay", "cheap",
	}
)

const (
	adjectiveBonusPositive = 0.05
	adjectiveBonusNegative = 0.04
)

// ExtractAdjectives scans the text for lexicon adjectives and returns the
// unique lowercase matches in lexicon order.
func ExtractAdjectives(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, group := range [][]string{positiveAdjectives, negativeAdjectives, neutralAdjectives} {
		for _, adj := range group {
			if strings.Contains(lower, adj) {
				found = append(found, adj)
			}
		}
	}
	return dedupeStrings(found)
}

// AdjustSentiment folds the adjective signal into a base sentiment value:
// each positive adjective adds a small bonus, each negative one subtracts,
// clamped to [0,1].
func AdjustSentiment(base float64, adjectives []string) float64 {
	adjusted := base
	for _, adj := range adjectives {
		switch {
		case containsString(positiveAdjectives, adj):
			adjusted += adjectiveBonusPositive
		case containsString(negativeAdjectives, adj):
			adjusted -= adjectiveBonusNegative
		}
	}
	if adjusted < 0 {
		return 0
	}
	if adjusted > 1 {
		return 1
	}
	return adjusted
}

// SummarizeChars produces a synopsis capped at maxChars characters; longer
// text is cut to maxChars-3 runes with "..." appended.
func SummarizeChars(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-3]) + "..."
}

// SummarizeWords produces a synopsis of at most maxWords words, with an
// ellipsis marker when truncated.
func SummarizeWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
