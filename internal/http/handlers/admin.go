package handlers

import (
	"net/http"
	"strings"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/format"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

// EmptyTopicMessage rejects a draft request without a title.
const EmptyTopicMessage = "Please enter a topic title first."

type dashboardResponse struct {
	TotalRaised    float64                `json:"total_raised"`
	TotalDisplay   string                 `json:"total_display"`
	DonationCount  int                    `json:"donation_count"`
	CategoryTotals []impact.CategoryTotal `json:"category_totals"`
	Recent         []domain.Donation      `json:"recent"`
	Summary        string                 `json:"summary"`
	Generator      string                 `json:"generator"`
	DraftInFlight  bool                   `json:"draft_in_flight"`
}

type postRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url"`
}

type draftRequest struct {
	Title     string `json:"title"`
	KeyPoints string `json:"key_points"`
}

type draftResponse struct {
	Story  string `json:"story"`
	Shared bool   `json:"shared"`
}

func (a *App) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := a.adminUser(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.dashboard(r, u.ID))
}

// dashboard builds the analytics payload. DraftInFlight tells the post form
// to keep its generate button disabled until the pending draft settles.
func (a *App) dashboard(r *http.Request, adminID int64) dashboardResponse {
	donations := a.Store.Donations()
	recent := impact.RecentDonations(donations, story.MaxSummaryDonations)
	total := impact.TotalRaised(donations)
	return dashboardResponse{
		TotalRaised:    total,
		TotalDisplay:   format.Total(total),
		DonationCount:  len(donations),
		CategoryTotals: impact.CategoryTotals(donations, a.Store.Categories()),
		Recent:         recent,
		Summary:        a.Stories.Summary(r.Context(), recent),
		Generator:      story.Name(a.Stories.Generator()),
		DraftInFlight:  a.Stories.InFlight(draftKey(adminID)),
	}
}

func (a *App) AdminPostsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := a.adminUser(w, r)
	if !ok {
		return
	}
	var req postRequest
	if !a.decode(w, r, &req) {
		return
	}
	post, err := a.Store.AddPost(r.Context(), u.ID, state.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	// The draft has been published; anything still generating for it is moot.
	a.Stories.Abandon(draftKey(u.ID))
	a.json(w, http.StatusCreated, post)
}

// AdminDraft writes a story for the post form. Concurrent submissions for
// the same admin share a single generation.
func (a *App) AdminDraft(w http.ResponseWriter, r *http.Request) {
	u, ok := a.adminUser(w, r)
	if !ok {
		return
	}
	var req draftRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", EmptyTopicMessage)
		return
	}
	text, shared, err := a.Stories.Story(r.Context(), draftKey(u.ID), req.Title, req.KeyPoints)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, draftResponse{Story: text, Shared: shared})
}

// AdminDraftAbandon discards any generation in flight for the admin's draft.
func (a *App) AdminDraftAbandon(w http.ResponseWriter, r *http.Request) {
	u, ok := a.adminUser(w, r)
	if !ok {
		return
	}
	a.Stories.Abandon(draftKey(u.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) adminUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return domain.User{}, false
	}
	if !u.IsAdmin() {
		a.fail(w, r, domain.ErrForbidden)
		return domain.User{}, false
	}
	return u, true
}
