package impact

import (
	"sort"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

const (
	BadgeFirstDonor      = "First Donor"
	BadgeTopContributor  = "Top Contributor"
	topContributorAmount = 1000
)

// Profile summarises one supporter's giving.
type Profile struct {
	TotalDonated  float64  `json:"total_donated"`
	DonationCount int      `json:"donation_count"`
	Badges        []string `json:"badges"`
}

// ProfileSummary computes totals and badges for userID.
func ProfileSummary(donations []domain.Donation, userID int64) Profile {
	p := Profile{Badges: []string{}}
	for _, d := range donations {
		if d.UserID != userID {
			continue
		}
		p.TotalDonated += d.Amount
		p.DonationCount++
	}
	if p.DonationCount > 0 {
		p.Badges = append(p.Badges, BadgeFirstDonor)
	}
	if p.TotalDonated > topContributorAmount {
		p.Badges = append(p.Badges, BadgeTopContributor)
	}
	return p
}

// LivesImpacted is the headline figure on the home screen. Every donation
// counts as 100 units of impact, one life per 50 units, on top of a base of
// 120 lives reached before the platform launched.
func LivesImpacted(donationCount int) int {
	return donationCount*100/50 + 120
}

// RecentDonations returns at most n donations, newest first, as a fresh slice.
func RecentDonations(donations []domain.Donation, n int) []domain.Donation {
	out := append([]domain.Donation(nil), donations...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DonatedAt.After(out[b].DonatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Certificates lists one certificate per donation of userID in collection
// order. format renders the amount for display and may be nil.
func Certificates(donations []domain.Donation, userID int64, categories []domain.Category, format func(float64, domain.Currency) string) []domain.Certificate {
	out := make([]domain.Certificate, 0)
	for _, d := range donations {
		if d.UserID != userID {
			continue
		}
		cat, _ := domain.FindCategory(categories, d.CategoryID)
		cert := domain.Certificate{
			ID:           d.ID,
			DonationID:   d.ID,
			CategoryName: cat.Name,
			Amount:       d.Amount,
			Currency:     d.Currency,
			IssuedAt:     d.DonatedAt,
		}
		if format != nil {
			cert.Display = format(d.Amount, d.Currency)
		}
		out = append(out, cert)
	}
	return out
}
