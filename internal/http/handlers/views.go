package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
)

type viewResponse struct {
	View      domain.View `json:"view"`
	Requested domain.View `json:"requested"`
	Model     any         `json:"model"`
}

type homeModel struct {
	Greeting      string             `json:"greeting"`
	LivesImpacted int                `json:"lives_impacted"`
	Posts         []domain.AdminPost `json:"posts"`
}

type donateModel struct {
	Categories []domain.Category `json:"categories"`
	Currencies []domain.Currency `json:"currencies"`
}

type communityModel struct {
	Messages []domain.ChatMessage `json:"messages"`
	Polls    []domain.Poll        `json:"polls"`
}

// View navigates the session to {view} and returns the model for the view
// actually shown. Non-admins asking for admin land on home. Leaving admin
// abandons any story still being generated for the post form.
func (a *App) View(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	requested, err := domain.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	previous, err := a.Store.ActiveView(u.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	shown, err := a.Store.Navigate(r.Context(), u.ID, requested)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if previous == domain.ViewAdmin && shown != domain.ViewAdmin {
		a.Stories.Abandon(draftKey(u.ID))
	}
	model, err := a.viewModel(r, u, shown)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, viewResponse{View: shown, Requested: requested, Model: model})
}

func (a *App) viewModel(r *http.Request, u domain.User, v domain.View) (any, error) {
	switch v {
	case domain.ViewHome:
		return homeModel{
			Greeting:      "Welcome back, " + u.DisplayName(),
			LivesImpacted: impact.LivesImpacted(len(a.Store.Donations())),
			Posts:         a.Store.Posts(),
		}, nil
	case domain.ViewDonate:
		return donateModel{
			Categories: a.Store.Categories(),
			Currencies: domain.SupportedCurrencies,
		}, nil
	case domain.ViewLeaderboard:
		return a.leaderboard(r.URL.Query().Get("category")), nil
	case domain.ViewCertificates:
		return a.certificates(u.ID), nil
	case domain.ViewCommunity:
		return communityModel{
			Messages: a.Store.Messages(),
			Polls:    a.Store.Polls(),
		}, nil
	case domain.ViewAdmin:
		return a.dashboard(r, u.ID), nil
	}
	return nil, fmt.Errorf("%w: no model for %s", domain.ErrInvalidView, v)
}
