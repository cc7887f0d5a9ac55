package state

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
	"github.com/Awasthi-Ram/Root-fix-app/internal/seed"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newTestStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	cat, err := seed.Default(fixedNow)
	require.NoError(t, err)
	rec := &recorder{}
	draws := 0
	s := New(cat, Options{
		Now:       func() time.Time { return fixedNow },
		Intn:      func(n int) int { draws++; return (draws * 37) % n },
		Publisher: rec,
	})
	return s, rec
}

func login(t *testing.T, s *Store, email, name string) domain.User {
	t.Helper()
	u, sid, err := s.Login(context.Background(), Credentials{Email: email, Name: name, Consent: true})
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	return u
}

func TestLoginRequiresConsent(t *testing.T) {
	s, _ := newTestStore(t)

	_, _, err := s.Login(context.Background(), Credentials{Email: "dana@example.org", Name: "Dana"})

	require.ErrorIs(t, err, domain.ErrConsentRequired)
	require.ErrorContains(t, err, "Fund Utilization Policy")
	require.Empty(t, s.sessions)
}

func TestLoginRoles(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	admin := login(t, s, "admin@riseroot.org", "")
	require.Equal(t, int64(999), admin.ID)
	require.Equal(t, domain.UserRoleAdmin, admin.Role)
	require.Equal(t, "System Admin", admin.RealName)

	member := login(t, s, "dana@example.org", "")
	require.Equal(t, domain.UserRoleUser, member.Role)
	require.Equal(t, "John Doe", member.RealName)
	require.Contains(t, member.DummyName, "Anonymous Helper")
	require.False(t, member.IsPrivate)

	g, _, err := s.Login(ctx, Credentials{Provider: ProviderGoogle, Consent: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, g.ID, int64(5000))
	require.Equal(t, "Google User", g.RealName)

	_, _, err = s.Login(ctx, Credentials{Provider: "github", Consent: true, Email: "x@y.z"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	s, _ := newTestStore(t)
	u, sid, err := s.Login(context.Background(), Credentials{Email: "dana@example.org", Name: "Dana", Consent: true})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), u.ID))
	_, err = s.Authenticate(u.ID, sid)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.ErrorIs(t, s.Logout(context.Background(), u.ID), domain.ErrUnauthorized)
}

func newStoreWithDraws(t *testing.T, draw int) *Store {
	t.Helper()
	cat, err := seed.Default(fixedNow)
	require.NoError(t, err)
	return New(cat, Options{
		Now:  func() time.Time { return fixedNow },
		Intn: func(n int) int { return draw % n },
	})
}

func TestLoginSkipsSeededDonorIDs(t *testing.T) {
	s := newStoreWithDraws(t, 101)
	ctx := context.Background()
	alice := impact.RankContributors(s.Donations(), domain.OverallFilter, s.Categories())[1]
	require.Equal(t, int64(101), alice.UserID)

	u := login(t, s, "new@example.org", "Newcomer")

	require.NotContains(t, []int64{101, 102, 103, adminID}, u.ID)
	require.Empty(t, s.DonationsFor(u.ID))
	require.Empty(t, impact.ProfileSummary(s.Donations(), u.ID).Badges)

	_, err := s.Donate(ctx, u.ID, DonationInput{CategoryID: 1, Amount: 1})
	require.NoError(t, err)
	for _, c := range impact.RankContributors(s.Donations(), domain.OverallFilter, s.Categories()) {
		if c.UserID == 101 {
			require.Equal(t, alice, c)
		}
	}
}

func TestLoginNeverReissuesUserIDs(t *testing.T) {
	s := newStoreWithDraws(t, 42)
	ctx := context.Background()

	alice, aliceSession, err := s.Login(ctx, Credentials{Email: "a@x.org", Name: "Alice", Consent: true})
	require.NoError(t, err)
	require.Equal(t, int64(42), alice.ID)
	require.NoError(t, s.Logout(ctx, alice.ID))

	bob, bobSession, err := s.Login(ctx, Credentials{Email: "b@x.org", Name: "Bob", Consent: true})
	require.NoError(t, err)
	require.NotEqual(t, alice.ID, bob.ID)

	_, err = s.Authenticate(alice.ID, aliceSession)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	got, err := s.Authenticate(bob.ID, bobSession)
	require.NoError(t, err)
	require.Equal(t, "Bob", got.RealName)
}

func TestAuthenticateBindsSession(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	admin, first, err := s.Login(ctx, Credentials{Email: AdminEmail, Consent: true})
	require.NoError(t, err)
	_, again, err := s.Login(ctx, Credentials{Email: AdminEmail, Consent: true})
	require.NoError(t, err)
	require.Equal(t, first, again, "an open session is kept")

	_, err = s.Authenticate(admin.ID, "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = s.Authenticate(admin.ID, "not-the-session")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, s.Logout(ctx, admin.ID))
	_, fresh, err := s.Login(ctx, Credentials{Email: AdminEmail, Consent: true})
	require.NoError(t, err)
	require.NotEqual(t, first, fresh)
	_, err = s.Authenticate(admin.ID, first)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = s.Authenticate(admin.ID, fresh)
	require.NoError(t, err)
}

func TestDonatePrependsWithSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := login(t, s, "dana@example.org", "Dana Lee")

	d, err := s.Donate(ctx, u.ID, DonationInput{CategoryID: 3, Amount: 250, Currency: domain.CurrencyINR})

	require.NoError(t, err)
	require.Equal(t, domain.DonationStatusSuccess, d.Status)
	require.Equal(t, fixedNow, d.DonatedAt)
	require.Equal(t, domain.PrivacySnapshot{RealName: "Dana Lee", DummyName: u.DummyName}, d.Snapshot)
	all := s.Donations()
	require.Len(t, all, 5)
	require.Equal(t, d, all[0])
	require.Greater(t, d.ID, int64(4))
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].DonatedAt.After(all[i-1].DonatedAt), "donations are most recent first")
	}
}

func TestDonateValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := login(t, s, "dana@example.org", "Dana")

	tests := []struct {
		name string
		in   DonationInput
	}{
		{name: "zero amount", in: DonationInput{CategoryID: 1, Amount: 0}},
		{name: "negative amount", in: DonationInput{CategoryID: 1, Amount: -5}},
		{name: "nan amount", in: DonationInput{CategoryID: 1, Amount: math.NaN()}},
		{name: "infinite amount", in: DonationInput{CategoryID: 1, Amount: math.Inf(1)}},
		{name: "unknown category", in: DonationInput{CategoryID: 42, Amount: 10}},
		{name: "missing category", in: DonationInput{Amount: 10}},
		{name: "unsupported currency", in: DonationInput{CategoryID: 1, Amount: 10, Currency: "EUR"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Donate(ctx, u.ID, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidDonation)
			require.Len(t, s.Donations(), 4, "no partial record may be created")
		})
	}

	_, err := s.Donate(ctx, 12345, DonationInput{CategoryID: 1, Amount: 10})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPrivacyToggleDoesNotRewriteHistory(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := login(t, s, "dana@example.org", "Dana Lee")

	_, err := s.Donate(ctx, u.ID, DonationInput{CategoryID: 1, Amount: 5000})
	require.NoError(t, err)
	_, err = s.SendMessage(ctx, u.ID, "hello from dana")
	require.NoError(t, err)
	before := impact.RankContributors(s.Donations(), domain.OverallFilter, s.Categories())

	updated, err := s.TogglePrivacy(ctx, u.ID, true)
	require.NoError(t, err)
	require.True(t, updated.IsPrivate)

	after := impact.RankContributors(s.Donations(), domain.OverallFilter, s.Categories())
	require.Equal(t, before, after)
	require.Equal(t, "Dana Lee", after[0].DisplayIdentity)

	msg, err := s.SendMessage(ctx, u.ID, "now private")
	require.NoError(t, err)
	require.Equal(t, u.DummyName, msg.UserName)

	msgs := s.Messages()
	require.Equal(t, "Dana Lee", msgs[len(msgs)-2].UserName)
	require.Equal(t, u.DummyName, msgs[len(msgs)-1].UserName)

	d, err := s.Donate(ctx, u.ID, DonationInput{CategoryID: 1, Amount: 1})
	require.NoError(t, err)
	require.True(t, d.Snapshot.IsPrivate)
}

func TestSendMessage(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()
	u := login(t, s, "dana@example.org", "Dana")

	_, err := s.SendMessage(ctx, u.ID, "   \t\n ")
	require.ErrorIs(t, err, domain.ErrEmptyMessage)
	require.Len(t, s.Messages(), 2)

	msg, err := s.SendMessage(ctx, u.ID, "  Count me in!  ")
	require.NoError(t, err)
	require.Equal(t, "Count me in!", msg.Text)
	msgs := s.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, msg, msgs[2])
	require.Len(t, rec.events, 1)
	require.Equal(t, EventMessage, rec.events[0].Kind)
}

func TestVote(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()
	u := login(t, s, "dana@example.org", "Dana")
	held := s.Polls()

	p, err := s.Vote(ctx, u.ID, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 31, p.Options[1].Votes)
	require.Equal(t, 30, held[0].Options[1].Votes, "copies handed out earlier must not change")

	stored, err := s.Poll(1)
	require.NoError(t, err)
	require.Equal(t, p, stored)
	require.Len(t, rec.events, 1)

	_, err = s.Vote(ctx, u.ID, 1, 77)
	require.ErrorIs(t, err, domain.ErrUnknownOption)
	again, err := s.Poll(1)
	require.NoError(t, err)
	require.Equal(t, stored, again)

	_, err = s.Vote(ctx, u.ID, 9, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddPost(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	admin := login(t, s, "admin@riseroot.org", "")
	member := login(t, s, "dana@example.org", "Dana")

	_, err := s.AddPost(ctx, member.ID, PostInput{Title: "Hi"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Len(t, s.Posts(), 2)

	_, err = s.AddPost(ctx, admin.ID, PostInput{Title: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidPost)

	post, err := s.AddPost(ctx, admin.ID, PostInput{Title: "Well dug", Content: "Clean water for 300 families."})
	require.NoError(t, err)
	require.Contains(t, post.MediaURL, "https://picsum.photos/800/400?random=")
	require.Equal(t, post, s.Posts()[0])
}

func TestNavigateAppliesAdminGate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	admin := login(t, s, "admin@riseroot.org", "")
	member := login(t, s, "dana@example.org", "Dana")

	v, err := s.Navigate(ctx, member.ID, domain.ViewAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.ViewHome, v)

	v, err = s.Navigate(ctx, admin.ID, domain.ViewAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.ViewAdmin, v)

	active, err := s.ActiveView(admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ViewAdmin, active)
}

func TestCancelledContextIsRejected(t *testing.T) {
	s, _ := newTestStore(t)
	u := login(t, s, "dana@example.org", "Dana")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Donate(ctx, u.ID, DonationInput{CategoryID: 1, Amount: 10})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, s.Donations(), 4)
}

func TestConcurrentDonations(t *testing.T) {
	s, _ := newTestStore(t)
	u := login(t, s, "dana@example.org", "Dana")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Donate(context.Background(), u.ID, DonationInput{CategoryID: 2, Amount: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, s.DonationsFor(u.ID), 50)
	seen := map[int64]bool{}
	for _, d := range s.Donations() {
		require.False(t, seen[d.ID], "duplicate id %d", d.ID)
		seen[d.ID] = true
	}
}
