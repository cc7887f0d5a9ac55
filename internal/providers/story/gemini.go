package story

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

const (
	geminiDefaultModel   = "gemini-3-flash-preview"
	geminiDefaultTimeout = 20 * time.Second
)

// contentGenerator is the slice of the genai client the Gemini generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOptions configures the Gemini-backed generator.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
	// OnFallback is called whenever a fixed string replaces model output.
	OnFallback func(reason string, err error)
}

// Gemini generates text with Google's generative AI API.
type Gemini struct {
	models     contentGenerator
	model      string
	logger     zerolog.Logger
	onFallback func(string, error)
}

// NewGemini builds a Gemini generator. It fails only when the client cannot
// be constructed; callers fall back to Offline in that case.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: geminiDefaultTimeout}
	}
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, opts), nil
}

func newGemini(models contentGenerator, opts GeminiOptions) *Gemini {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Gemini{
		models:     models,
		model:      model,
		logger:     logger,
		onFallback: opts.OnFallback,
	}
}

func (g *Gemini) GenerateStory(ctx context.Context, topic, keyPoints string) string {
	if strings.TrimSpace(keyPoints) == "" {
		keyPoints = DefaultKeyPoints
	}
	text, err := g.generate(ctx, buildStoryPrompt(topic, keyPoints), 0.8)
	if err != nil {
		g.fallback("story_request", err)
		return ErrorStoryFallback
	}
	if text == "" {
		g.fallback("story_empty", nil)
		return EmptyStoryFallback
	}
	return text
}

func (g *Gemini) SummarizeImpact(ctx context.Context, recent []domain.Donation) string {
	prompt, err := buildSummaryPrompt(recent)
	if err != nil {
		g.fallback("summary_encode", err)
		return SummaryFallback
	}
	text, err := g.generate(ctx, prompt, 0.5)
	if err != nil {
		g.fallback("summary_request", err)
		return SummaryFallback
	}
	if text == "" {
		g.fallback("summary_empty", nil)
		return SummaryFallback
	}
	return text
}

func (g *Gemini) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(temperature),
		CandidateCount: 1,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *Gemini) fallback(reason string, err error) {
	g.logger.Warn().Err(err).Str("reason", reason).Str("model", g.model).Msg("gemini fallback")
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
}

var _ Generator = (*Gemini)(nil)
