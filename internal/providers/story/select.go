package story

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Options selects and configures the generator at startup.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// New picks the generator once: Gemini when a credential is configured,
// Offline otherwise or when the Gemini client cannot be built.
func New(ctx context.Context, opts Options) Generator {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		logger.Warn().Msg("GEMINI_API_KEY is missing, story generation uses placeholder text")
		return NewOffline()
	}
	g, err := NewGemini(ctx, GeminiOptions{
		APIKey:     opts.APIKey,
		Model:      opts.Model,
		BaseURL:    opts.BaseURL,
		HTTPClient: opts.HTTPClient,
		Logger:     opts.Logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("gemini unavailable, story generation uses placeholder text")
		return NewOffline()
	}
	logger.Info().Str("model", g.model).Msg("story generation uses gemini")
	return g
}
