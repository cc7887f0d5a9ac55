package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/http/handlers"
	"github.com/Awasthi-Ram/Root-fix-app/internal/middleware"
)

// Options tunes the middleware stack.
type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMin    int
}

func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// Base middleware
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(opts.CORSAllowedOrigins),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Route("/v1", func(r chi.Router) {
		// Public
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)
		r.Post("/auth/login", app.AuthLogin)
		r.Get("/categories", app.Categories)
		r.Get("/leaderboard", app.Leaderboard)
		r.Get("/posts", app.Posts)
		r.Get("/community/messages", app.MessagesList)
		r.Get("/community/polls", app.PollsList)

		// Signed in
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.SessionSecret))

			r.Post("/auth/logout", app.AuthLogout)
			r.Get("/me", app.Me)
			r.Put("/me/privacy", app.UpdatePrivacy)
			r.Post("/donations", app.DonationsCreate)
			r.Get("/donations/mine", app.DonationsMine)
			r.Get("/certificates", app.Certificates)
			r.Post("/community/messages", app.MessagesCreate)
			r.Post("/community/polls/{pollID}/votes", app.PollVote)
			r.Get("/community/stream", app.Stream)
			r.Get("/views/{view}", app.View)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(domain.UserRoleAdmin)))
				r.Get("/dashboard", app.AdminDashboard)
				r.Post("/posts", app.AdminPostsCreate)
				r.Post("/posts/draft", app.AdminDraft)
				r.Delete("/posts/draft", app.AdminDraftAbandon)
			})
		})
	})

	return r
}
