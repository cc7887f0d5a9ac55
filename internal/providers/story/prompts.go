package story

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

const organisationName = "RiseRoot"

func buildStoryPrompt(topic, keyPoints string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a PR manager for a non-profit called %q.\n", organisationName)
	fmt.Fprintf(sb, "Write a short, inspiring success story blog post (max 150 words) about: %s.\n", strings.TrimSpace(topic))
	fmt.Fprintf(sb, "Include these key details: %s.\n", strings.TrimSpace(keyPoints))
	sb.WriteString("Tone: Uplifting, transparent, and gratitude-filled.\n")
	sb.WriteString("Do not use markdown formatting like **bold** or headers, just plain text paragraphs.")
	return sb.String()
}

type summaryDonation struct {
	ID         int64   `json:"id"`
	CategoryID int     `json:"categoryId"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	DonatedAt  string  `json:"donatedAt"`
}

// buildSummaryPrompt embeds at most MaxSummaryDonations donations. Donor
// identities are left out of the payload.
func buildSummaryPrompt(recent []domain.Donation) (string, error) {
	if len(recent) > MaxSummaryDonations {
		recent = recent[:MaxSummaryDonations]
	}
	items := make([]summaryDonation, 0, len(recent))
	for _, d := range recent {
		items = append(items, summaryDonation{
			ID:         d.ID,
			CategoryID: d.CategoryID,
			Amount:     d.Amount,
			Currency:   string(d.Currency),
			DonatedAt:  d.DonatedAt.UTC().Format("2006-01-02"),
		})
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return "Summarize the impact of these recent donations in one inspiring sentence for the dashboard: " + string(raw), nil
}
