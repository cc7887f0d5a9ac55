package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Awasthi-Ram/Root-fix-app/internal/community"
	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
	"github.com/Awasthi-Ram/Root-fix-app/internal/middleware"
	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
	"github.com/Awasthi-Ram/Root-fix-app/internal/seed"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, gen story.Generator) *App {
	t.Helper()
	cat, err := seed.Default(fixedNow)
	require.NoError(t, err)
	hub := community.NewHub(zerolog.Nop())
	draws := 0
	store := state.New(cat, state.Options{
		Now:       func() time.Time { return fixedNow },
		Intn:      func(n int) int { draws++; return (draws * 53) % n },
		Publisher: hub,
	})
	app := NewApp(store, story.NewGuard(gen, time.Second), hub, nil, zerolog.Nop(), "test-secret")
	app.Now = func() time.Time { return fixedNow }
	return app
}

// caller is a signed-in user together with the session its token names.
type caller struct {
	domain.User
	SessionID string
}

func signIn(t *testing.T, app *App, email string) caller {
	t.Helper()
	u, sid, err := app.Store.Login(context.Background(), state.Credentials{Email: email, Name: "Dana Lee", Consent: true})
	require.NoError(t, err)
	return caller{User: u, SessionID: sid}
}

func request(method, target string, body any, who caller, params map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := req.Context()
	if who.ID != 0 {
		ctx = middleware.ContextWithSession(ctx, who.ID, who.SessionID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &env)
	return env.Error.Code, env.Error.Message
}

func TestAuthLoginRequiresConsent(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	rec := httptest.NewRecorder()

	app.AuthLogin(rec, request(http.MethodPost, "/v1/auth/login", map[string]any{"email": "dana@example.org"}, caller{}, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, msg := errorCode(t, rec)
	assert.Equal(t, "consent_required", code)
	assert.Equal(t, state.ConsentMessage, msg)
}

func TestAuthLoginIssuesVerifiableToken(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	rec := httptest.NewRecorder()

	app.AuthLogin(rec, request(http.MethodPost, "/v1/auth/login", map[string]any{"email": "admin@riseroot.org", "consent": true}, caller{}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	decodeBody(t, rec, &resp)
	assert.EqualValues(t, 999, resp.User.ID)
	assert.Equal(t, domain.UserRoleAdmin, resp.User.Role)

	claims, err := middleware.VerifySession("test-secret", resp.Token, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "999", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	rec := httptest.NewRecorder()
	app.AuthLogin(rec, request(http.MethodPost, "/v1/auth/login", map[string]any{"consent": true, "password": "x"}, caller{}, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoggedOutSessionIsRejected(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	rec := httptest.NewRecorder()
	app.AuthLogout(rec, request(http.MethodPost, "/v1/auth/logout", nil, u, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	app.Me(rec, request(http.MethodGet, "/v1/me", nil, u, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClosedSessionTokenIsRejectedAfterNewSignIn(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	first := signIn(t, app, state.AdminEmail)

	rec := httptest.NewRecorder()
	app.AuthLogout(rec, request(http.MethodPost, "/v1/auth/logout", nil, first, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	second := signIn(t, app, state.AdminEmail)
	require.Equal(t, first.ID, second.ID)
	require.NotEqual(t, first.SessionID, second.SessionID)

	rec = httptest.NewRecorder()
	app.AdminDashboard(rec, request(http.MethodGet, "/v1/admin/dashboard", nil, first, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	app.AdminDashboard(rec, request(http.MethodGet, "/v1/admin/dashboard", nil, second, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDonationFlowAndPrivacySnapshot(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	rec := httptest.NewRecorder()
	app.DonationsCreate(rec, request(http.MethodPost, "/v1/donations", map[string]any{"category_id": 4, "amount": 2000, "currency": "usd"}, u, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created donationResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, domain.CurrencyUSD, created.Currency)
	assert.Equal(t, "Dana Lee", created.Snapshot.DisplayIdentity())
	assert.Contains(t, created.Display, "2,000.00")

	rec = httptest.NewRecorder()
	app.UpdatePrivacy(rec, request(http.MethodPut, "/v1/me/privacy", map[string]any{"is_private": true}, u, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Leaderboard(rec, request(http.MethodGet, "/v1/leaderboard", nil, caller{}, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var board leaderboardResponse
	decodeBody(t, rec, &board)
	require.Len(t, board.Contributors, 4)
	assert.Equal(t, "Dana Lee", board.Contributors[0].DisplayIdentity)
	assert.Equal(t, 1, board.Contributors[0].Rank)
	assert.Equal(t, "Kind Stranger", board.Contributors[1].DisplayIdentity)

	rec = httptest.NewRecorder()
	app.Me(rec, request(http.MethodGet, "/v1/me", nil, u, nil))
	var me profileResponse
	decodeBody(t, rec, &me)
	assert.True(t, me.User.IsPrivate)
	assert.NotEqual(t, "Dana Lee", me.DisplayName)
	assert.Equal(t, []string{impact.BadgeFirstDonor, impact.BadgeTopContributor}, me.Profile.Badges)
}

func TestDonationValidation(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "zero amount", body: map[string]any{"category_id": 1, "amount": 0}},
		{name: "negative", body: map[string]any{"category_id": 1, "amount": -5}},
		{name: "unknown category", body: map[string]any{"category_id": 9, "amount": 5}},
		{name: "unsupported currency", body: map[string]any{"category_id": 1, "amount": 5, "currency": "GBP"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.DonationsCreate(rec, request(http.MethodPost, "/v1/donations", tc.body, u, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Len(t, app.Store.Donations(), 4)
}

func TestLeaderboardEmptyCategory(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	rec := httptest.NewRecorder()

	app.Leaderboard(rec, request(http.MethodGet, "/v1/leaderboard?category=Development", nil, caller{}, nil))

	var board leaderboardResponse
	decodeBody(t, rec, &board)
	assert.Empty(t, board.Contributors)
	assert.NotNil(t, board.Contributors)
	assert.Equal(t, impact.EmptyRankingMessage, board.Message)
}

func TestCertificatesEmptyState(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")
	rec := httptest.NewRecorder()

	app.Certificates(rec, request(http.MethodGet, "/v1/certificates", nil, u, nil))

	var resp certificatesResponse
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Certificates)
	assert.Equal(t, EmptyCertificatesMessage, resp.Message)
}

func TestCommunityMessagesAndVotes(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	rec := httptest.NewRecorder()
	app.MessagesCreate(rec, request(http.MethodPost, "/v1/community/messages", map[string]any{"text": "   "}, u, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	app.MessagesCreate(rec, request(http.MethodPost, "/v1/community/messages", map[string]any{"text": " Count me in "}, u, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg domain.ChatMessage
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Count me in", msg.Text)
	assert.Equal(t, "Dana Lee", msg.UserName)

	rec = httptest.NewRecorder()
	app.PollVote(rec, request(http.MethodPost, "/v1/community/polls/1/votes", map[string]any{"option_id": 2}, u, map[string]string{"pollID": "1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	var poll domain.Poll
	decodeBody(t, rec, &poll)
	assert.Equal(t, 45, poll.Options[0].Votes)
	assert.Equal(t, 31, poll.Options[1].Votes)

	rec = httptest.NewRecorder()
	app.PollVote(rec, request(http.MethodPost, "/v1/community/polls/1/votes", map[string]any{"option_id": 77}, u, map[string]string{"pollID": "1"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	app.PollVote(rec, request(http.MethodPost, "/v1/community/polls/x/votes", map[string]any{"option_id": 1}, u, map[string]string{"pollID": "x"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	polls := app.Store.Polls()
	assert.Equal(t, 31, polls[0].Options[1].Votes)
}

func TestViewRoutingAppliesAdminGate(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	for _, v := range domain.Views {
		t.Run(v.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.View(rec, request(http.MethodGet, "/v1/views/"+v.String(), nil, u, map[string]string{"view": v.String()}))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				View      string          `json:"view"`
				Requested string          `json:"requested"`
				Model     json.RawMessage `json:"model"`
			}
			decodeBody(t, rec, &resp)
			want := domain.ResolveView(v, u.User).String()
			assert.Equal(t, want, resp.View)
			assert.Equal(t, v.String(), resp.Requested)
			assert.NotEqual(t, "null", string(resp.Model))
		})
	}

	rec := httptest.NewRecorder()
	app.View(rec, request(http.MethodGet, "/v1/views/settings", nil, u, map[string]string{"view": "settings"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHomeViewModel(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")
	rec := httptest.NewRecorder()

	app.View(rec, request(http.MethodGet, "/v1/views/home", nil, u, map[string]string{"view": "home"}))

	var resp struct {
		Model homeModel `json:"model"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, impact.LivesImpacted(4), resp.Model.LivesImpacted)
	assert.Len(t, resp.Model.Posts, 2)
	assert.True(t, strings.HasSuffix(resp.Model.Greeting, "Dana Lee"))
}

func TestAdminRoutesRejectSupporters(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	u := signIn(t, app, "dana@example.org")

	rec := httptest.NewRecorder()
	app.AdminPostsCreate(rec, request(http.MethodPost, "/v1/admin/posts", map[string]any{"title": "Hijack"}, u, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, app.Store.Posts(), 2)

	rec = httptest.NewRecorder()
	app.AdminDashboard(rec, request(http.MethodGet, "/v1/admin/dashboard", nil, u, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminDashboardAndPost(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	admin := signIn(t, app, state.AdminEmail)

	rec := httptest.NewRecorder()
	app.AdminDashboard(rec, request(http.MethodGet, "/v1/admin/dashboard", nil, admin, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var dash dashboardResponse
	decodeBody(t, rec, &dash)
	assert.Equal(t, 2150.0, dash.TotalRaised)
	assert.Equal(t, "2,150", dash.TotalDisplay)
	assert.Equal(t, 4, dash.DonationCount)
	assert.Equal(t, story.OfflineSummary, dash.Summary)
	require.Len(t, dash.CategoryTotals, 4)
	assert.Equal(t, "Edu", dash.CategoryTotals[0].Name)
	assert.Equal(t, 800.0, dash.CategoryTotals[0].Amount)

	rec = httptest.NewRecorder()
	app.AdminPostsCreate(rec, request(http.MethodPost, "/v1/admin/posts", map[string]any{"title": "Well dug", "content": "Clean water for 300 families."}, admin, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var post domain.AdminPost
	decodeBody(t, rec, &post)
	assert.True(t, strings.HasPrefix(post.MediaURL, "https://picsum.photos/800/400?random="))
	assert.Equal(t, "Well dug", app.Store.Posts()[0].Title)
}

func TestAdminDraft(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	admin := signIn(t, app, state.AdminEmail)

	rec := httptest.NewRecorder()
	app.AdminDraft(rec, request(http.MethodPost, "/v1/admin/posts/draft", map[string]any{"title": "  "}, admin, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, msg := errorCode(t, rec)
	assert.Equal(t, EmptyTopicMessage, msg)

	rec = httptest.NewRecorder()
	app.AdminDraft(rec, request(http.MethodPost, "/v1/admin/posts/draft", map[string]any{"title": "solar lamps"}, admin, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var draft draftResponse
	decodeBody(t, rec, &draft)
	assert.True(t, strings.HasPrefix(draft.Story, story.MockMarker))
	assert.Contains(t, draft.Story, "about solar lamps.")
	assert.Contains(t, draft.Story, story.DefaultKeyPoints)
}

type gatedGenerator struct {
	started chan struct{}
}

func (g *gatedGenerator) GenerateStory(ctx context.Context, topic, keyPoints string) string {
	g.started <- struct{}{}
	<-ctx.Done()
	return story.ErrorStoryFallback
}

func (g *gatedGenerator) SummarizeImpact(ctx context.Context, recent []domain.Donation) string {
	return story.SummaryFallback
}

func TestAdminDraftAbandonedWhileGenerating(t *testing.T) {
	gen := &gatedGenerator{started: make(chan struct{}, 1)}
	app := newTestApp(t, gen)
	admin := signIn(t, app, state.AdminEmail)

	var wg sync.WaitGroup
	rec := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.AdminDraft(rec, request(http.MethodPost, "/v1/admin/posts/draft", map[string]any{"title": "Clinic"}, admin, nil))
	}()
	<-gen.started

	// Navigating away from admin abandons the draft.
	nav := httptest.NewRecorder()
	app.View(nav, request(http.MethodGet, "/v1/views/admin", nil, admin, map[string]string{"view": "admin"}))
	require.Equal(t, http.StatusOK, nav.Code)
	nav = httptest.NewRecorder()
	app.View(nav, request(http.MethodGet, "/v1/views/home", nil, admin, map[string]string{"view": "home"}))
	require.Equal(t, http.StatusOK, nav.Code)

	wg.Wait()
	assert.Equal(t, http.StatusConflict, rec.Code)
	code, _ := errorCode(t, rec)
	assert.Equal(t, "stale", code)
	assert.False(t, app.Stories.InFlight(draftKey(admin.ID)))
}

func TestDashboardReportsDraftInFlight(t *testing.T) {
	gen := &gatedGenerator{started: make(chan struct{}, 1)}
	app := newTestApp(t, gen)
	admin := signIn(t, app, state.AdminEmail)

	inFlight := func() bool {
		t.Helper()
		rec := httptest.NewRecorder()
		app.AdminDashboard(rec, request(http.MethodGet, "/v1/admin/dashboard", nil, admin, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var dash dashboardResponse
		decodeBody(t, rec, &dash)
		return dash.DraftInFlight
	}
	require.False(t, inFlight())

	var wg sync.WaitGroup
	rec := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.AdminDraft(rec, request(http.MethodPost, "/v1/admin/posts/draft", map[string]any{"title": "Clinic"}, admin, nil))
	}()
	<-gen.started
	assert.True(t, inFlight())

	abandon := httptest.NewRecorder()
	app.AdminDraftAbandon(abandon, request(http.MethodDelete, "/v1/admin/posts/draft", nil, admin, nil))
	wg.Wait()
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, inFlight())
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, story.NewOffline())
	rec := httptest.NewRecorder()
	app.Health(rec, request(http.MethodGet, "/v1/healthz", nil, caller{}, nil))

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "offline", body["generator"])
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp(t, story.NewOffline())

	rec := httptest.NewRecorder()
	app.OpenAPIJSON(rec, request(http.MethodGet, "/v1/openapi.json", nil, caller{}, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	req := request(http.MethodGet, "/v1/openapi.json", nil, caller{}, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = httptest.NewRecorder()
	app.OpenAPIDocs(rec, request(http.MethodGet, "/v1/docs", nil, caller{}, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<title>RiseRoot API Docs</title>`)
	assert.Contains(t, rec.Body.String(), `spec-url="/v1/openapi.json"`)
}
