// Package impact derives read-only summaries from the donation collection.
// Nothing here mutates its inputs and nothing is cached; callers recompute on
// every read.
package impact

import (
	"sort"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

// Contributor is one row of the contributor ranking.
type Contributor struct {
	UserID          int64   `json:"user_id"`
	DisplayIdentity string  `json:"display_identity"`
	Total           float64 `json:"total"`
}

// EmptyRankingMessage is shown when no donation matches the filter.
const EmptyRankingMessage = "No contributions yet in this category. Be the first!"

// RankContributors groups donations matching filter by donor and orders the
// donors by total amount, highest first. filter is domain.OverallFilter (or
// empty) for every category, otherwise a category name; an unknown name
// matches nothing.
//
// The display identity comes from the privacy snapshot of the donor's first
// donation in input order, never from the live profile. Equal totals keep the
// order in which donors first appear in the input.
func RankContributors(donations []domain.Donation, filter string, categories []domain.Category) []Contributor {
	match := categoryMatcher(filter, categories)

	index := make(map[int64]int)
	out := make([]Contributor, 0)
	for _, d := range donations {
		if !match(d.CategoryID) {
			continue
		}
		i, ok := index[d.UserID]
		if !ok {
			i = len(out)
			index[d.UserID] = i
			out = append(out, Contributor{
				UserID:          d.UserID,
				DisplayIdentity: d.Snapshot.DisplayIdentity(),
			})
		}
		out[i].Total += d.Amount
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total > out[b].Total
	})
	return out
}

func categoryMatcher(filter string, categories []domain.Category) func(int) bool {
	if filter == "" || filter == domain.OverallFilter {
		return func(int) bool { return true }
	}
	cat, ok := domain.FindCategoryByName(categories, filter)
	if !ok {
		return func(int) bool { return false }
	}
	return func(id int) bool { return id == cat.ID }
}

// SumByCategory sums the amounts of donations allocated to categoryID.
func SumByCategory(donations []domain.Donation, categoryID int) float64 {
	var total float64
	for _, d := range donations {
		if d.CategoryID == categoryID {
			total += d.Amount
		}
	}
	return total
}

// TotalRaised sums every donation amount.
func TotalRaised(donations []domain.Donation) float64 {
	var total float64
	for _, d := range donations {
		total += d.Amount
	}
	return total
}

// CategoryTotal is one bar of the dashboard chart.
type CategoryTotal struct {
	CategoryID int     `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
}

// CategoryTotals returns one total per category in category order.
func CategoryTotals(donations []domain.Donation, categories []domain.Category) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		name := c.Short
		if name == "" {
			name = c.Name
		}
		out = append(out, CategoryTotal{
			CategoryID: c.ID,
			Name:       name,
			Amount:     SumByCategory(donations, c.ID),
		})
	}
	return out
}
