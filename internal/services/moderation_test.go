package services

import (
	"strings"
	"testing"
)

func TestModerateSpamAndAttack(t *testing.T) {
	v := ModerateReview("BUY NOW!!!!!! http://example.com")

	if !v.IsSpam {
		t.Errorf("expected is_spam=true")
	}
	if !v.IsAttack {
		t.Errorf("expected is_attack=true for >5 exclamation marks")
	}
	if !strings.Contains(v.Reason, "promotional content detected") {
		t.Errorf("reason missing spam fragment: %q", v.Reason)
	}
	if !strings.Contains(v.Reason, "aggressive tone") {
		t.Errorf("reason missing attack fragment: %q", v.Reason)
	}
}

func TestModerateGenericTemplateIsFakeOnly(t *testing.T) {
	v := ModerateReview("Great barber, 5 stars")

	if !v.IsFake {
		t.Errorf("expected is_fake=true for generic template")
	}
	if v.IsSpam || v.IsAttack || v.IsInappropriate {
		t.Errorf("expected only the fake axis, got %+v", v)
	}
	if v.Reason != "low-effort or templated content" {
		t.Errorf("reason = %q", v.Reason)
	}
}

func TestModerateShortTextIsFake(t *testing.T) {
	v := ModerateReview("nice cut")
	if !v.IsFake {
		t.Errorf("expected is_fake=true for text shorter than 15 chars")
	}
}

func TestModerateAllCapsAttack(t *testing.T) {
	v := ModerateReview("THIS PLACE RUINED MY HAIR FOREVER")
	if !v.IsAttack {
		t.Errorf("expected is_attack=true for long all-caps text")
	}

	// Short all-caps stays under the length threshold.
	v = ModerateReview("GREAT CUT THANKS YOU")
	if v.IsAttack {
		t.Errorf("expected is_attack=false for all-caps under threshold")
	}
}

func TestModerateInappropriateRequiresConjunction(t *testing.T) {
	profaneOnly := ModerateReview("The barber was a total asshole about my appointment time here")
	if profaneOnly.IsInappropriate {
		t.Errorf("profanity alone must not trigger the inappropriate axis")
	}

	both := ModerateReview("That asshole ruined my hair, boycott this place everyone")
	if !both.IsInappropriate {
		t.Errorf("profanity plus boycott phrase must trigger the inappropriate axis")
	}
	if !strings.Contains(both.Reason, "inappropriate content") {
		t.Errorf("reason missing inappropriate fragment: %q", both.Reason)
	}
}

func TestModerateCleanReview(t *testing.T) {
	v := ModerateReview("Walked in without an appointment and still got a careful, unhurried haircut.")

	if v.Flagged() {
		t.Errorf("expected clean verdict, got %+v", v)
	}
	if v.Reason != "clean review" {
		t.Errorf("reason = %q, want clean review", v.Reason)
	}
	if v.Confidence != 0.6 {
		t.Errorf("heuristic confidence = %v, want 0.6", v.Confidence)
	}
	if v.TriggeredAxes() != 0 {
		t.Errorf("triggered axes = %d, want 0", v.TriggeredAxes())
	}
}

func TestModerateEmptyTextIsFake(t *testing.T) {
	for _, text := range []string{"", "   "} {
		v := ModerateReview(text)
		if !v.IsFake {
			t.Errorf("ModerateReview(%q): expected is_fake=true under the length rule", text)
		}
		if v.IsSpam || v.IsAttack || v.IsInappropriate {
			t.Errorf("ModerateReview(%q): expected only the fake axis, got %+v", text, v)
		}
		if v.Reason != "low-effort or templated content" {
			t.Errorf("ModerateReview(%q): reason = %q", text, v.Reason)
		}
		if v.Confidence != 0.6 {
			t.Errorf("ModerateReview(%q): confidence = %v, want 0.6", text, v.Confidence)
		}
	}
}
