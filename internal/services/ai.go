package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/ollama/ollama/api"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// LLMProvider runs enrichment through a model backend. The backend kind is
// dispatched from the stored provider configuration; openai covers any
// OpenAI-compatible endpoint. Every call has a finite timeout and bounded
// retries; a timed-out call is a provider failure, not an enrichment.
type LLMProvider struct {
	cfg        models.ProviderConfig
	timeout    time.Duration
	maxRetries int
	scorer     *ImageScorer
}

func NewLLMProvider(cfg models.ProviderConfig, timeout time.Duration, maxRetries int, trustedImageTag string) *LLMProvider {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &LLMProvider{
		cfg:        cfg,
		timeout:    timeout,
		maxRetries: maxRetries,
		scorer:     NewImageScorer(trustedImageTag),
	}
}

func (p *LLMProvider) Name() string    { return p.cfg.Kind }
func (p *LLMProvider) ModelID() string { return p.cfg.Model }

// reviewPayload is the JSON shape the model must return for a review.
type reviewPayload struct {
	Sentiment  *float64          `json:"sentiment"`
	Names      []string          `json:"names"`
	Summary    string            `json:"summary"`
	Adjectives []string          `json:"adjectives"`
	Moderation ModerationVerdict `json:"moderation"`
}

// imagePayload is the JSON shape the model must return for an image.
type imagePayload struct {
	Objects   map[string]float64 `json:"objects"`
	FaceCount int                `json:"face_count"`
	FaceScore float64            `json:"face_score"`
	OCRText   string             `json:"ocr_text"`
	OCRScore  float64            `json:"ocr_score"`
}

const reviewPromptTemplate = `You analyze barbershop reviews. For the review below, return ONLY valid JSON (no markdown, no extra text) with this exact shape:
{
  "sentiment": 0.0-1.0,
  "names": ["barber names mentioned, empty if none"],
  "summary": "synopsis of at most 120 characters",
  "adjectives": ["lowercase adjectives describing barber or service"],
  "moderation": {
    "is_spam": true/false,
    "is_fake": true/false,
    "is_attack": true/false,
    "is_inappropriate": true/false,
    "confidence": 0.0-1.0,
    "reason": "brief explanation, or 'clean review'"
  }
}

Review: %q`

const imagePromptTemplate = `You analyze photos for a barbershop directory. Given the image URL below, return ONLY valid JSON (no markdown) with this exact shape:
{
  "objects": {"label": weight 0.0-1.0},
  "face_count": 0,
  "face_score": 0.0-1.0,
  "ocr_text": "",
  "ocr_score": 0.0-1.0
}

Image URL: %q`

func (p *LLMProvider) EnrichReview(ctx context.Context, review *models.Review) (*ReviewEnrichment, error) {
	pre := PrefilterReview(review.Text)

	raw, err := p.call(ctx, fmt.Sprintf(reviewPromptTemplate, pre.CleanText))
	if err != nil {
		return nil, err
	}

	var payload reviewPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Sentiment == nil || *payload.Sentiment < 0 || *payload.Sentiment > 1 {
		return nil, fmt.Errorf("%w: sentiment out of range", ErrMalformedResponse)
	}

	verdict := payload.Moderation
	if verdict.Reason == "" {
		return nil, fmt.Errorf("%w: missing moderation verdict", ErrMalformedResponse)
	}

	names := payload.Names
	best := ""
	if len(names) > 0 {
		best = names[0]
	} else if review.Shop != nil && review.Shop.Name != "" {
		names = []string{review.Shop.Name}
		best = review.Shop.Name
	}

	return &ReviewEnrichment{
		Sentiment:         *payload.Sentiment,
		AdjustedSentiment: AdjustSentiment(*payload.Sentiment, payload.Adjectives),
		Names:             names,
		BestName:          best,
		Summary:           SummarizeChars(payload.Summary, summaryCharBudget),
		Adjectives:        payload.Adjectives,
		Moderation:        &verdict,
		Provider:          p.Name(),
		Model:             p.ModelID(),
	}, nil
}

func (p *LLMProvider) Classify(ctx context.Context, text string) (*ModerationVerdict, error) {
	review := &models.Review{Text: text}
	e, err := p.EnrichReview(ctx, review)
	if err != nil {
		return nil, err
	}
	return e.Moderation, nil
}

// ScoreImage asks the model for raw detection signals and composes the
// final scores with the default policy weights.
func (p *LLMProvider) ScoreImage(ctx context.Context, img *models.Image) (*ImageAnalysis, error) {
	raw, err := p.call(ctx, fmt.Sprintf(imagePromptTemplate, img.URL))
	if err != nil {
		return nil, err
	}

	var payload imagePayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Objects == nil {
		return nil, fmt.Errorf("%w: missing object weights", ErrMalformedResponse)
	}

	analysis := &ImageAnalysis{
		ObjectWeights: payload.Objects,
		FaceCount:     payload.FaceCount,
		FaceScore:     payload.FaceScore,
		OCRText:       payload.OCRText,
		OCRScore:      payload.OCRScore,
	}
	return p.scorer.ScoreSignals(img, analysis), nil
}

// call runs one prompt against the configured backend with bounded
// exponential backoff inside the per-call timeout.
func (p *LLMProvider) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var content string
	operation := func() error {
		var err error
		content, err = p.callBackend(callCtx, prompt)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(p.maxRetries)),
		callCtx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return content, nil
}

func (p *LLMProvider) callBackend(ctx context.Context, prompt string) (string, error) {
	switch p.cfg.Kind {
	case "anthropic":
		return p.callAnthropic(ctx, prompt)
	case "ollama":
		return p.callOllama(ctx, prompt)
	case "gemini":
		return p.callGemini(ctx, prompt)
	case "azure":
		return p.callAzure(ctx, prompt)
	default:
		// openai and other OpenAI-compatible services
		return p.callOpenAI(ctx, prompt)
	}
}

func (p *LLMProvider) callOpenAI(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(p.cfg.APIKey)
	if p.cfg.BaseURL != "" {
		clientConfig.BaseURL = p.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature(),
	})
	if err != nil {
		logger.Warnf("[AI] OpenAI API error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *LLMProvider) callAzure(ctx context.Context, prompt string) (string, error) {
	// Azure requires BaseURL format: https://{resource-name}.openai.azure.com
	// Model field is used as deployment name
	config := openai.DefaultAzureConfig(p.cfg.APIKey, p.cfg.BaseURL)
	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature(),
	})
	if err != nil {
		logger.Warnf("[AI] Azure OpenAI API error: %v", err)
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *LLMProvider) callAnthropic(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(p.cfg.APIKey),
	)

	maxTokens := int64(p.cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		logger.Warnf("[AI] Anthropic API error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	return content.String(), nil
}

func (p *LLMProvider) callOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := p.cfg.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": p.cfg.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		logger.Warnf("[AI] Ollama API error: %v", err)
		return "", fmt.Errorf("Ollama API error: %w", err)
	}
	return content.String(), nil
}

func (p *LLMProvider) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		logger.Warnf("[AI] Gemini API error: %v", err)
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

func (p *LLMProvider) temperature() float32 {
	if p.cfg.Temperature > 0 {
		return float32(p.cfg.Temperature)
	}
	return 0.1
}

// stripCodeFence removes a surrounding markdown code block, which some
// models wrap around JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
