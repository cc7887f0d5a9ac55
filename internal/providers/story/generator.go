// Package story produces the narrative text shown on the admin dashboard:
// success stories for new posts and a one-line impact summary. A Generator
// never returns an error; failures become a fixed, user-safe string.
package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/format"
)

// Generator is the text-generation contract used by the handlers.
type Generator interface {
	GenerateStory(ctx context.Context, topic, keyPoints string) string
	SummarizeImpact(ctx context.Context, recent []domain.Donation) string
}

const (
	offlineProviderName = "offline"
	geminiProviderName  = "gemini"

	// MaxSummaryDonations caps how many donations are sent for summarising.
	MaxSummaryDonations = 10

	// DefaultKeyPoints is used when the admin leaves key points empty.
	DefaultKeyPoints = "Local village impacted, 50 kids in school, 3 shops opened"

	MockMarker         = "(Mock)"
	OfflineSummary     = "Impact summary unavailable (No API Key)."
	EmptyStoryFallback = "Failed to generate story."
	ErrorStoryFallback = "Error generating content. Please try again later."
	SummaryFallback    = "Together we are making a difference."
)

// Offline generates deterministic placeholder text. It is selected when no
// API credential is configured.
type Offline struct{}

// NewOffline returns the placeholder generator.
func NewOffline() *Offline {
	return &Offline{}
}

func (o *Offline) GenerateStory(ctx context.Context, topic, keyPoints string) string {
	topic = format.Topic(topic)
	if topic == "" {
		topic = "our work"
	}
	keyPoints = strings.TrimSpace(keyPoints)
	if keyPoints == "" {
		keyPoints = DefaultKeyPoints
	}
	return fmt.Sprintf("%s Here is an inspiring story about %s. The community came together to achieve great things, specifically: %s. This is a placeholder because the API key is missing.", MockMarker, topic, keyPoints)
}

func (o *Offline) SummarizeImpact(ctx context.Context, recent []domain.Donation) string {
	return OfflineSummary
}

// Name reports which implementation backs a generator.
func Name(g Generator) string {
	switch g.(type) {
	case *Gemini:
		return geminiProviderName
	case *Offline:
		return offlineProviderName
	}
	return fmt.Sprintf("%T", g)
}

var _ Generator = (*Offline)(nil)
