package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type messageRequest struct {
	Text string `json:"text"`
}

type voteRequest struct {
	OptionID int64 `json:"option_id"`
}

// Posts lists the transparency wall, newest first.
func (a *App) Posts(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Store.Posts()})
}

func (a *App) MessagesList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Store.Messages()})
}

func (a *App) MessagesCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req messageRequest
	if !a.decode(w, r, &req) {
		return
	}
	msg, err := a.Store.SendMessage(r.Context(), u.ID, req.Text)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, msg)
}

func (a *App) PollsList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Store.Polls()})
}

func (a *App) PollVote(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	pollID, err := parseID(chi.URLParam(r, "pollID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req voteRequest
	if !a.decode(w, r, &req) {
		return
	}
	poll, err := a.Store.Vote(r.Context(), u.ID, pollID, req.OptionID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, poll)
}

// Stream upgrades to a websocket that receives chat, poll and post events.
func (a *App) Stream(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if err := a.Hub.ServeWS(a.Upgrader, w, r, u.ID); err != nil {
		// The upgrader has already replied to the client.
		a.Logger.Debug().Err(err).Int64("user_id", u.ID).Msg("stream upgrade failed")
	}
}
