// Package seed loads the static catalogue the in-memory state starts from.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Catalogue is the decoded seed data.
type Catalogue struct {
	Categories []domain.Category
	Donations  []domain.Donation
	Posts      []domain.AdminPost
	Messages   []domain.ChatMessage
	Polls      []domain.Poll
}

type seedMessage struct {
	ID         int64  `yaml:"id"`
	UserID     int64  `yaml:"user_id"`
	UserName   string `yaml:"user_name"`
	Text       string `yaml:"text"`
	SentOffset string `yaml:"sent_offset"`
}

type seedFile struct {
	Categories []domain.Category  `yaml:"categories"`
	Donations  []domain.Donation  `yaml:"donations"`
	Posts      []domain.AdminPost `yaml:"posts"`
	Messages   []seedMessage      `yaml:"messages"`
	Polls      []domain.Poll      `yaml:"polls"`
}

// Default decodes the embedded catalogue.
func Default(now time.Time) (*Catalogue, error) {
	return Parse(defaultCatalogue, now)
}

// Load decodes the catalogue at path, or the embedded one when path is empty.
func Load(path string, now time.Time) (*Catalogue, error) {
	if path == "" {
		return Default(now)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(raw, now)
}

// Parse decodes raw YAML. Message timestamps are resolved against now.
func Parse(raw []byte, now time.Time) (*Catalogue, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("seed: at least one category is required")
	}

	cat := &Catalogue{
		Categories: f.Categories,
		Donations:  f.Donations,
		Posts:      f.Posts,
		Polls:      f.Polls,
	}
	for i, d := range cat.Donations {
		if _, ok := domain.FindCategory(cat.Categories, d.CategoryID); !ok {
			return nil, fmt.Errorf("seed: donation %d references unknown category %d", d.ID, d.CategoryID)
		}
		if !d.Currency.Valid() {
			return nil, fmt.Errorf("seed: donation %d has unsupported currency %q", d.ID, d.Currency)
		}
		if d.Status == "" {
			cat.Donations[i].Status = domain.DonationStatusSuccess
		}
	}
	// The donation collection is kept most recent first; new donations are
	// prepended to it.
	sort.SliceStable(cat.Donations, func(i, j int) bool {
		return cat.Donations[i].DonatedAt.After(cat.Donations[j].DonatedAt)
	})
	for _, m := range f.Messages {
		sentAt := now
		if m.SentOffset != "" {
			offset, err := time.ParseDuration(m.SentOffset)
			if err != nil {
				return nil, fmt.Errorf("seed: message %d: %w", m.ID, err)
			}
			sentAt = now.Add(offset)
		}
		cat.Messages = append(cat.Messages, domain.ChatMessage{
			ID:       m.ID,
			UserID:   m.UserID,
			UserName: m.UserName,
			Text:     m.Text,
			SentAt:   sentAt,
		})
	}
	return cat, nil
}
