package services

import (
	"regexp"
	"strings"
	"unicode"
)

// ModerationVerdict classifies a review along four independent axes. The
// reason string concatenates the triggered axis explanations in a fixed
// order; a verdict with no triggered axis carries the reason "clean review".
type ModerationVerdict struct {
	IsSpam          bool    `json:"is_spam"`
	IsFake          bool    `json:"is_fake"`
	IsAttack        bool    `json:"is_attack"`
	IsInappropriate bool    `json:"is_inappropriate"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
}

// Flagged reports whether any axis triggered.
func (v *ModerationVerdict) Flagged() bool {
	return v.IsSpam || v.IsFake || v.IsAttack || v.IsInappropriate
}

// TriggeredAxes counts the axes that fired, used for credibility penalties.
func (v *ModerationVerdict) TriggeredAxes() int {
	n := 0
	for _, b := range []bool{v.IsSpam, v.IsFake, v.IsAttack, v.IsInappropriate} {
		if b {
			n++
		}
	}
	return n
}

// Moderation thresholds and the fixed heuristic confidence.
const (
	moderationConfidence = 0.6
	fakeMinLength        = 15
	attackCapsMinLength  = 20
	attackMaxExclamation = 5
)

// Axis reason fragments, concatenated in this order.
const (
	reasonSpam          = "promotional content detected"
	reasonFake          = "low-effort or templated content"
	reasonAttack        = "aggressive tone"
	reasonInappropriate = "inappropriate content"
	reasonClean         = "clean review"
)

var (
	spamKeywords = []string{
		"buy now", "click here", "visit", "promo code", "discount",
		"special offer", "limited time", "free shipping",
		"http://", "https://", ".com", "www.",
		"call now", "text now", "order now",
	}
	genericTemplate = regexp.MustCompile(`(?i)^(great|good|best|awesome|terrible|worst|bad)\s*(barber|shop|place|service)`)
	profanityTerms  = []string{"fuck", "shit", "bitch", "asshole", "bastard", "scum"}
	threatTerms     = []string{
		"boycott", "shut down", "shut them down", "i will find you",
		"you will regret", "watch your back", "destroy this place",
	}
)

// ModerateReview evaluates the four axes independently against fixed
// keyword and pattern sets. Each axis is cheap pure computation; no state
// is held across calls.
func ModerateReview(text string) *ModerationVerdict {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(text)

	isSpam := false
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			isSpam = true
			break
		}
	}

	isFake := len(trimmed) < fakeMinLength || genericTemplate.MatchString(text)

	isAttack := (isAllUpper(text) && len(text) > attackCapsMinLength) ||
		strings.Count(text, "!") > attackMaxExclamation

	// Profanity alone is not flagged; a threat or boycott phrase must also
	// be present. Kept as a conjunction on purpose, pending product review.
	hasProfanity := false
	for _, w := range profanityTerms {
		if strings.Contains(lower, w) {
			hasProfanity = true
			break
		}
	}
	hasThreat := false
	for _, w := range threatTerms {
		if strings.Contains(lower, w) {
			hasThreat = true
			break
		}
	}
	isInappropriate := hasProfanity && hasThreat

	verdict := &ModerationVerdict{
		IsSpam:          isSpam,
		IsFake:          isFake,
		IsAttack:        isAttack,
		IsInappropriate: isInappropriate,
		Confidence:      moderationConfidence,
	}
	verdict.Reason = buildReason(verdict)
	return verdict
}

func buildReason(v *ModerationVerdict) string {
	var parts []string
	if v.IsSpam {
		parts = append(parts, reasonSpam)
	}
	if v.IsFake {
		parts = append(parts, reasonFake)
	}
	if v.IsAttack {
		parts = append(parts, reasonAttack)
	}
	if v.IsInappropriate {
		parts = append(parts, reasonInappropriate)
	}
	if len(parts) == 0 {
		return reasonClean
	}
	return strings.Join(parts, "; ")
}

// isAllUpper reports whether the text contains letters and none of them are
// lower case.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
