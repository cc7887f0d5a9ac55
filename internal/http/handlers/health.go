package handlers

import (
	"net/http"

	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"generator": story.Name(a.Stories.Generator()),
		"streams":   a.Hub.Connected(),
	})
}
