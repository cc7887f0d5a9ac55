package state

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

const (
	AdminEmail     = "admin@riseroot.org"
	adminID        = 999
	googleIDOffset = 5000
	userIDSpan     = 1000

	ProviderPassword = "password"
	ProviderGoogle   = "google"

	ConsentMessage = "You must agree to the Fund Utilization Policy & Privacy Statement to proceed."
)

// Credentials is what the sign-in form submits. Nothing is verified; the
// only gate is the policy consent checkbox.
type Credentials struct {
	Email    string
	Name     string
	Provider string
	Consent  bool
}

// Login signs a user in and opens a session on the home view. It returns the
// session id that every later request must present alongside the user id.
// Signing in again while a session is open (only possible for the admin
// account) keeps that session.
func (s *Store) Login(ctx context.Context, c Credentials) (domain.User, string, error) {
	if err := checkContext(ctx); err != nil {
		return domain.User{}, "", err
	}
	if !c.Consent {
		return domain.User{}, "", fmt.Errorf("%w: %s", domain.ErrConsentRequired, ConsentMessage)
	}
	email := strings.TrimSpace(c.Email)
	provider := c.Provider
	if provider == "" {
		provider = ProviderPassword
	}
	if provider == ProviderPassword && email == "" {
		return domain.User{}, "", fmt.Errorf("%w: email is required", domain.ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var u domain.User
	switch {
	case provider == ProviderPassword && strings.EqualFold(email, AdminEmail):
		u = domain.User{
			ID:        adminID,
			Email:     email,
			RealName:  "System Admin",
			DummyName: "Admin",
			Role:      domain.UserRoleAdmin,
		}
	case provider == ProviderGoogle:
		u = domain.User{
			ID:        s.freeUserID(googleIDOffset),
			Email:     "google_user@gmail.com",
			RealName:  "Google User",
			DummyName: fmt.Sprintf("Anonymous Helper %d", s.intn(100)),
			Role:      domain.UserRoleUser,
		}
	case provider == ProviderPassword:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "John Doe"
		}
		u = domain.User{
			ID:        s.freeUserID(0),
			Email:     email,
			RealName:  name,
			DummyName: fmt.Sprintf("Anonymous Helper %d", s.intn(100)),
			Role:      domain.UserRoleUser,
		}
	default:
		return domain.User{}, "", fmt.Errorf("%w: unknown provider %q", domain.ErrUnauthorized, provider)
	}

	if sess, ok := s.sessions[u.ID]; ok {
		sess.view = domain.ViewHome
		return sess.user, sess.id, nil
	}
	s.knownUsers[u.ID] = struct{}{}
	sess := &session{id: uuid.NewString(), user: u, view: domain.ViewHome}
	s.sessions[u.ID] = sess
	s.logger.Debug().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("session opened")
	return u, sess.id, nil
}

// freeUserID draws a random id in [offset, offset+userIDSpan) that has never
// been handed out and owns no seeded history. When the draws keep colliding
// it takes the first unused id above the range. Must be called with mu held.
func (s *Store) freeUserID(offset int64) int64 {
	for i := 0; i < userIDSpan; i++ {
		id := offset + int64(s.intn(userIDSpan))
		if s.userIDFree(id) {
			return id
		}
	}
	id := offset + userIDSpan
	for !s.userIDFree(id) {
		id++
	}
	return id
}

func (s *Store) userIDFree(id int64) bool {
	if id <= 0 || id == adminID {
		return false
	}
	_, known := s.knownUsers[id]
	return !known
}

// Logout closes the session of userID.
func (s *Store) Logout(ctx context.Context, userID int64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; !ok {
		return domain.ErrUnauthorized
	}
	delete(s.sessions, userID)
	return nil
}

// Authenticate returns the live profile behind a session token. The session
// id must match the one Login issued, so a token that outlived its session
// never resolves to a later session.
func (s *Store) Authenticate(userID int64, sessionID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok || sessionID == "" || subtle.ConstantTimeCompare([]byte(sess.id), []byte(sessionID)) != 1 {
		return domain.User{}, domain.ErrUnauthorized
	}
	return sess.user, nil
}

// TogglePrivacy sets the live privacy flag. Donations already made keep
// their snapshot; chat messages already sent keep their resolved name.
func (s *Store) TogglePrivacy(ctx context.Context, userID int64, private bool) (domain.User, error) {
	if err := checkContext(ctx); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	sess.user.IsPrivate = private
	return sess.user, nil
}

// Navigate moves the session to v after applying the admin gate and returns
// the view actually shown.
func (s *Store) Navigate(ctx context.Context, userID int64, v domain.View) (domain.View, error) {
	if err := checkContext(ctx); err != nil {
		return domain.ViewHome, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return domain.ViewHome, domain.ErrUnauthorized
	}
	sess.view = domain.ResolveView(v, sess.user)
	return sess.view, nil
}

// ActiveView returns the view the session is on.
func (s *Store) ActiveView(userID int64) (domain.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return domain.ViewHome, domain.ErrUnauthorized
	}
	return sess.view, nil
}
