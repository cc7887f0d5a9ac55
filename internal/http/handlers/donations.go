package handlers

import (
	"net/http"
	"strings"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/format"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

// EmptyCertificatesMessage is shown when the user has not donated yet.
const EmptyCertificatesMessage = "You haven't made any donations yet."

type donationRequest struct {
	CategoryID int     `json:"category_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

type donationResponse struct {
	domain.Donation
	Display string `json:"display"`
}

type leaderboardRow struct {
	impact.Contributor
	Rank    int    `json:"rank"`
	Display string `json:"display"`
}

type leaderboardResponse struct {
	Category     string           `json:"category"`
	Contributors []leaderboardRow `json:"contributors"`
	Message      string           `json:"message,omitempty"`
}

type certificatesResponse struct {
	Certificates []domain.Certificate `json:"certificates"`
	Message      string               `json:"message,omitempty"`
}

func (a *App) Categories(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"categories": a.Store.Categories(),
		"currencies": domain.SupportedCurrencies,
	})
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	d, err := a.Store.Donate(r.Context(), u.ID, state.DonationInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Currency:   domain.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, donationResponse{Donation: d, Display: format.Amount(d.Amount, d.Currency)})
}

func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	items := a.Store.DonationsFor(u.ID)
	out := make([]donationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, donationResponse{Donation: d, Display: format.Amount(d.Amount, d.Currency)})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// Leaderboard ranks contributors for ?category= (a category name or Overall).
func (a *App) Leaderboard(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.leaderboard(r.URL.Query().Get("category")))
}

func (a *App) leaderboard(category string) leaderboardResponse {
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.OverallFilter
	}
	ranked := impact.RankContributors(a.Store.Donations(), category, a.Store.Categories())
	resp := leaderboardResponse{Category: category, Contributors: make([]leaderboardRow, 0, len(ranked))}
	for i, c := range ranked {
		resp.Contributors = append(resp.Contributors, leaderboardRow{Contributor: c, Rank: i + 1, Display: format.Total(c.Total)})
	}
	if len(ranked) == 0 {
		resp.Message = impact.EmptyRankingMessage
	}
	return resp
}

func (a *App) Certificates(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.certificates(u.ID))
}

func (a *App) certificates(userID int64) certificatesResponse {
	certs := impact.Certificates(a.Store.Donations(), userID, a.Store.Categories(), format.Amount)
	resp := certificatesResponse{Certificates: certs}
	if len(certs) == 0 {
		resp.Message = EmptyCertificatesMessage
	}
	return resp
}
