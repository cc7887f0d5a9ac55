package handlers

import (
	"net/http"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
	"github.com/Awasthi-Ram/Root-fix-app/internal/middleware"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

type loginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Consent  bool   `json:"consent"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	View  domain.View `json:"view"`
}

type profileResponse struct {
	User        domain.User    `json:"user"`
	DisplayName string         `json:"display_name"`
	Profile     impact.Profile `json:"profile"`
	View        domain.View    `json:"view"`
}

type privacyRequest struct {
	IsPrivate *bool `json:"is_private"`
}

// AuthLogin signs a user in with the mock provider and returns a session
// token.
func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	u, sessionID, err := a.Store.Login(r.Context(), state.Credentials{
		Email:    req.Email,
		Name:     req.Name,
		Provider: req.Provider,
		Consent:  req.Consent,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	token, err := middleware.SignSession(a.SessionSecret, u.ID, sessionID, string(u.Role), a.now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.Logger.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("signed in")
	a.json(w, http.StatusOK, loginResponse{Token: token, User: u, View: domain.ViewHome})
}

func (a *App) AuthLogout(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	a.Stories.Abandon(draftKey(u.ID))
	if err := a.Store.Logout(r.Context(), u.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	view, err := a.Store.ActiveView(u.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse{
		User:        u,
		DisplayName: u.DisplayName(),
		Profile:     impact.ProfileSummary(a.Store.Donations(), u.ID),
		View:        view,
	})
}

// UpdatePrivacy sets the live privacy flag. Past donations keep the identity
// they were made with.
func (a *App) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req privacyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.IsPrivate == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "is_private is required")
		return
	}
	u, err := a.Store.TogglePrivacy(r.Context(), u.ID, *req.IsPrivate)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": u, "display_name": u.DisplayName()})
}
