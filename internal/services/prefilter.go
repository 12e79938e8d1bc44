package services

import (
	"regexp"
	"strings"
)

// PII masking placeholders. Providers only ever see the masked text.
const (
	maskEmail = "[REDACTED_EMAIL]"
	maskURL   = "[REDACTED_URL]"
	maskPhone = "[REDACTED_PHONE]"
	maskSSN   = "[REDACTED_SSN]"
	maskCC    = "[REDACTED_CC]"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	urlPattern   = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{4,18}\d`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	ccPattern    = regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)

	promoPhrases        = regexp.MustCompile(`(?i)\b(buy now|click here|limited time|promo code|discount|free shipping)\b`)
	callToActionPhrases = regexp.MustCompile(`(?i)\b(call now|text now|order now)\b`)
	repeatedBang        = regexp.MustCompile(`!{3,}`)
)

// PrefilterResult is the outcome of the PII and spam-signal pre-pass run on
// raw review text before any provider sees it.
type PrefilterResult struct {
	CleanText   string
	ExposesPII  bool
	SpamReasons []string
}

// Spammy reports whether the pre-pass found any spam signal.
func (r *PrefilterResult) Spammy() bool { return len(r.SpamReasons) > 0 }

// PrefilterReview masks emails, URLs, phone numbers and SSN/credit-card-like
// digit runs, and records coarse spam signals off the original text.
func PrefilterReview(text string) *PrefilterResult {
	result := &PrefilterResult{CleanText: text}
	if text == "" {
		return result
	}

	// URLs are masked too but count as a spam signal, not PII.
	piiFound := false
	s := text
	s = emailPattern.ReplaceAllStringFunc(s, func(string) string {
		piiFound = true
		return maskEmail
	})
	s = urlPattern.ReplaceAllString(s, maskURL)
	s = ssnPattern.ReplaceAllStringFunc(s, func(string) string {
		piiFound = true
		return maskSSN
	})
	s = ccPattern.ReplaceAllStringFunc(s, func(m string) string {
		digits := countDigits(m)
		if digits >= 13 && digits <= 16 {
			piiFound = true
			return maskCC
		}
		return m
	})
	s = phonePattern.ReplaceAllStringFunc(s, func(m string) string {
		digits := countDigits(m)
		if digits >= 6 && digits <= 15 {
			piiFound = true
			return maskPhone
		}
		return m
	})

	result.CleanText = s
	result.ExposesPII = piiFound

	if promoPhrases.MatchString(text) {
		result.SpamReasons = append(result.SpamReasons, "promotional")
	}
	if strings.Contains(strings.ToLower(text), "http://") ||
		strings.Contains(strings.ToLower(text), "https://") ||
		strings.Contains(strings.ToLower(text), "www.") {
		result.SpamReasons = append(result.SpamReasons, "external_link")
	}
	if callToActionPhrases.MatchString(text) {
		result.SpamReasons = append(result.SpamReasons, "call_to_action")
	}
	if repeatedBang.MatchString(text) {
		result.SpamReasons = append(result.SpamReasons, "excessive_punctuation")
	}
	if hasLongCapsRun(text) {
		result.SpamReasons = append(result.SpamReasons, "all_caps")
	}

	return result
}

// hasLongCapsRun reports a run of 6 or more consecutive upper-case letters
// after stripping non-letters.
func hasLongCapsRun(s string) bool {
	run := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			run++
			if run >= 6 {
				return true
			}
		} else if r >= 'a' && r <= 'z' {
			run = 0
		}
	}
	return false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
