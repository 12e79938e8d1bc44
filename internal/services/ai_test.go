package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rateyourbarber/trustengine/internal/models"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReviewPayloadShape(t *testing.T) {
	raw := `{
		"sentiment": 0.9,
		"names": ["Maria"],
		"summary": "Great cut by Maria",
		"adjectives": ["skilled"],
		"moderation": {
			"is_spam": false, "is_fake": false, "is_attack": false,
			"is_inappropriate": false, "confidence": 0.92, "reason": "clean review"
		}
	}`

	var payload reviewPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Sentiment == nil || *payload.Sentiment != 0.9 {
		t.Errorf("sentiment = %v", payload.Sentiment)
	}
	if payload.Moderation.Reason != "clean review" {
		t.Errorf("moderation reason = %q", payload.Moderation.Reason)
	}

	// Missing sentiment must be detectable, not silently zero.
	var missing reviewPayload
	if err := json.Unmarshal([]byte(`{"names":[]}`), &missing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if missing.Sentiment != nil {
		t.Errorf("absent sentiment should stay nil")
	}
}

func TestNewLLMProviderDefaults(t *testing.T) {
	p := NewLLMProvider(models.ProviderConfig{Kind: "openai", Model: "gpt-4o-mini"}, 0, -1, "")

	if p.timeout != 12*time.Second {
		t.Errorf("timeout default = %v", p.timeout)
	}
	if p.maxRetries != 0 {
		t.Errorf("maxRetries default = %d", p.maxRetries)
	}
	if p.Name() != "openai" || p.ModelID() != "gpt-4o-mini" {
		t.Errorf("provider tag = %s/%s", p.Name(), p.ModelID())
	}
	if p.temperature() != 0.1 {
		t.Errorf("temperature default = %v", p.temperature())
	}
}
