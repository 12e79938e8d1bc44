package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Pre-compiled context patterns for name attribution, in priority order.
// Each pattern captures a capitalized token adjacent to a trigger phrase.
// Only the first match per pattern is taken.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)to\s+([A-Z][a-z]{1,20})\s+at`),
	regexp.MustCompile(`(?i)to\s+([A-Z][a-z]{1,20})[.!]`),
	regexp.MustCompile(`(?i)by\s+([A-Z][a-z]{1,20})`),
	regexp.MustCompile(`(?i)ask for\s+([A-Z][a-z]{1,20})`),
	regexp.MustCompile(`(?i)mention[:\s]\s*([A-Z][a-z]{1,20})`),
	regexp.MustCompile(`(?i)shoutout to\s+([A-Z][a-z]{1,20})`),
	regexp.MustCompile(`(?i)special mention[:\s]*\s*([A-Z][a-z]{1,20})`),
	regexp.MustCompile(`(?i)today\s+([A-Z][a-z]{1,20})\s+was`),
	regexp.MustCompile(`(?i)with\s+([A-Z][a-z]{1,20})\s+after`),
	regexp.MustCompile(`(?i)see\s+([A-Z][a-z]{1,20})`),
}

var capitalizedToken = regexp.MustCompile(`\b[A-Z][a-z]{1,20}\b`)

// baseStopWords are common sentence-initial and location words that the
// capitalized-token fallback must never treat as names.
var baseStopWords = []string{
	"I", "The", "A", "An", "He", "She", "They", "If",
	"Main", "Street", "Barbershop", "Downtown", "Barber", "Shop",
}

// NameCandidates holds extraction results, split by how each candidate was
// found. Context-pattern hits are higher precision than fallback hits.
type NameCandidates struct {
	Context  []string
	Fallback []string
}

// All returns the union of context and fallback candidates, context first,
// duplicates removed.
func (c *NameCandidates) All() []string {
	seen := make(map[string]bool, len(c.Context)+len(c.Fallback))
	var all []string
	for _, n := range c.Context {
		if !seen[n] {
			seen[n] = true
			all = append(all, n)
		}
	}
	for _, n := range c.Fallback {
		if !seen[n] {
			seen[n] = true
			all = append(all, n)
		}
	}
	return all
}

// Best returns the single most plausible name: the first context-pattern
// candidate, else the first fallback candidate, else "".
func (c *NameCandidates) Best() string {
	if len(c.Context) > 0 {
		return c.Context[0]
	}
	if len(c.Fallback) > 0 {
		return c.Fallback[0]
	}
	return ""
}

// NameExtractor finds barber names in review text via ordered context
// patterns plus a capitalized-token fallback. It is a pure function holder;
// extra stop words come from configuration (place-name noise).
type NameExtractor struct {
	stopWords map[string]bool
}

func NewNameExtractor(extraStopWords []string) *NameExtractor {
	stop := make(map[string]bool, len(baseStopWords)+len(extraStopWords))
	for _, w := range baseStopWords {
		stop[w] = true
	}
	for _, w := range extraStopWords {
		stop[titleCase(w)] = true
	}
	return &NameExtractor{stopWords: stop}
}

// Extract runs the context patterns first, then the capitalized-token
// fallback, and unions the results. Empty or whitespace-only text yields an
// empty result. The heuristic is Latin-capitalization based.
func (e *NameExtractor) Extract(text string) *NameCandidates {
	result := &NameCandidates{}
	if strings.TrimSpace(text) == "" {
		return result
	}

	seen := make(map[string]bool)
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := titleCase(m[1])
		if e.stopWords[name] || seen[name] {
			continue
		}
		seen[name] = true
		result.Context = append(result.Context, name)
	}

	for _, w := range capitalizedToken.FindAllString(text, -1) {
		name := titleCase(w)
		if e.stopWords[name] || seen[name] {
			continue
		}
		seen[name] = true
		result.Fallback = append(result.Fallback, name)
	}

	return result
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
