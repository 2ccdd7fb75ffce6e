package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/codyseavey/tcg-explorer/internal/config"
	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/metrics"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

const (
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiTimeout = 15 * time.Second
	geminiMaxOutput      = 256
)

const intentInstructionPrompt = `You classify questions about Pokemon trading card data.

Reply with a single JSON object and nothing else:
{"intent": <tag>, "fragment": <string>, "set": <string>, "n": <integer>}

Tags:
- "search_by_name": find cards by name. Put the card name (or its beginning) in "fragment".
- "show_set": list the cards in one set. Put the set as the user wrote it in "set".
- "top_n_valuable": the N most valuable cards in a set. Put the set in "set" and N in "n".
  If the user does not give a number, use 10.
- "total_cost": the combined market price of every card in a set. Put the set in "set".
- "unknown": greetings, help requests, or anything else.

Copy set names and abbreviations exactly as the user wrote them; do not expand or correct them.
Omit fields that do not apply to the tag.`

// GeminiIntentModel classifies user text with Gemini. It only returns the raw
// model output; validation happens in IntentResolver.
type GeminiIntentModel struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewGeminiIntentModel creates the model adapter. Without an API key the
// adapter is disabled and every call fails with ErrResolverUnavailable.
func NewGeminiIntentModel(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiIntentModel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &GeminiIntentModel{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if m.model == "" {
		m.model = defaultGeminiModel
	}
	if m.timeout <= 0 {
		m.timeout = defaultGeminiTimeout
	}

	apiKey := cfg.ResolvedAPIKey()
	if apiKey == "" {
		logger.Info("Gemini intent model disabled (no GOOGLE_API_KEY)")
		return m, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to create Gemini client")
	}
	m.client = client
	m.enabled = true
	logger.Info("Gemini intent model enabled", zap.String("model", m.model))
	return m, nil
}

// IsEnabled returns whether Gemini is available
func (m *GeminiIntentModel) IsEnabled() bool {
	return m.enabled
}

// Classify sends text to Gemini with the fixed instruction prompt and returns
// the model's JSON reply verbatim.
func (m *GeminiIntentModel) Classify(ctx context.Context, text string) (string, error) {
	if !m.enabled {
		metrics.GeminiErrorsTotal.WithLabelValues("disabled").Inc()
		return "", errs.Newf(errs.ErrResolverUnavailable, "Gemini is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	metrics.GeminiRequestsTotal.Inc()
	start := time.Now()
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(text), m.generateConfig())
	metrics.GeminiAPILatency.Observe(time.Since(start).Seconds())
	if err != nil {
		errType := "api"
		if ctx.Err() != nil {
			errType = "timeout"
		}
		metrics.GeminiErrorsTotal.WithLabelValues(errType).Inc()
		m.logger.Warn("Gemini classification failed", zap.String("type", errType), zap.Error(err))
		return "", errs.Mark(errs.Wrap(err, "Gemini generate content"), errs.ErrResolverUnavailable)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		metrics.GeminiErrorsTotal.WithLabelValues("empty").Inc()
		return "", errs.Newf(errs.ErrResolverUnavailable, "Gemini returned no text")
	}

	m.logger.Debug("Gemini classification",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("output", out))
	return out, nil
}

func (m *GeminiIntentModel) generateConfig() *genai.GenerateContentConfig {
	tags := make([]string, 0, len(models.AllIntentKinds()))
	for _, kind := range models.AllIntentKinds() {
		tags = append(tags, string(kind))
	}

	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(intentInstructionPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   geminiMaxOutput,
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"intent": {
					Type:        genai.TypeString,
					Enum:        tags,
					Description: "One of the intent tags.",
				},
				"fragment": {
					Type:        genai.TypeString,
					Description: "Card name or name prefix for search_by_name.",
				},
				"set": {
					Type:        genai.TypeString,
					Description: "Set reference as written by the user.",
				},
				"n": {
					Type:        genai.TypeInteger,
					Description: fmt.Sprintf("Number of cards for %s.", models.IntentTopNValuable),
				},
			},
			Required: []string{"intent"},
		},
	}
}
