package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Awasthi-Ram/Root-fix-app/internal/community"
	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/middleware"
	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

const maxBodyBytes = 1 << 16

// App carries the dependencies every handler needs.
type App struct {
	Store         *state.Store
	Stories       *story.Guard
	Hub           *community.Hub
	Upgrader      *websocket.Upgrader
	Logger        zerolog.Logger
	SessionSecret string
	Now           func() time.Time
}

// NewApp wires an App. A nil upgrader accepts any origin.
func NewApp(store *state.Store, stories *story.Guard, hub *community.Hub, upgrader *websocket.Upgrader, logger zerolog.Logger, sessionSecret string) *App {
	if upgrader == nil {
		upgrader = community.Upgrader(nil)
	}
	return &App{
		Store:         store,
		Stories:       stories,
		Hub:           hub,
		Upgrader:      upgrader,
		Logger:        logger,
		SessionSecret: sessionSecret,
		Now:           time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

// decode reads a JSON body into dst, rejecting unknown fields.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// fail maps a domain error to its HTTP status.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrConsentRequired):
		a.error(w, http.StatusBadRequest, "consent_required", state.ConsentMessage)
	case errors.Is(err, domain.ErrInvalidDonation),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidView),
		errors.Is(err, domain.ErrInvalidPost):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "sign in required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "admin access required")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownOption):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, story.ErrStale):
		a.error(w, http.StatusConflict, "stale", "draft was abandoned")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.error(w, http.StatusRequestTimeout, "timeout", "request cancelled")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// currentUser resolves the live session behind the request token. A token
// that outlived its session (after logout) is rejected, even when its user id
// is signed in again under a new session.
func (a *App) currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return domain.User{}, false
	}
	u, err := a.Store.Authenticate(userID, middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return domain.User{}, false
	}
	return u, true
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// draftKey identifies the admin post draft owned by userID.
func draftKey(userID int64) string {
	return strconv.FormatInt(userID, 10) + ":post"
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrNotFound, raw)
	}
	return id, nil
}
