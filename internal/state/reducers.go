package state

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
)

// DonationInput is the donor's selection on the donate screen.
type DonationInput struct {
	CategoryID int
	Amount     float64
	Currency   domain.Currency
}

// Donate records a donation for userID. The privacy snapshot is copied from
// the user's live profile at this moment and never changes afterwards. The
// donation lands at the front of the collection with status success.
func (s *Store) Donate(ctx context.Context, userID int64, in DonationInput) (domain.Donation, error) {
	if err := checkContext(ctx); err != nil {
		return domain.Donation{}, err
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return domain.Donation{}, fmt.Errorf("%w: amount must be a positive number", domain.ErrInvalidDonation)
	}
	if in.Currency == "" {
		in.Currency = domain.CurrencyUSD
	}
	if !in.Currency.Valid() {
		return domain.Donation{}, fmt.Errorf("%w: unsupported currency %q", domain.ErrInvalidDonation, in.Currency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return domain.Donation{}, domain.ErrUnauthorized
	}
	if _, ok := domain.FindCategory(s.categories, in.CategoryID); !ok {
		return domain.Donation{}, fmt.Errorf("%w: unknown category %d", domain.ErrInvalidDonation, in.CategoryID)
	}

	d := domain.Donation{
		ID:         s.id(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Status:     domain.DonationStatusSuccess,
		DonatedAt:  s.now(),
		Snapshot:   sess.user.Snapshot(),
	}
	s.donations = append([]domain.Donation{d}, s.donations...)
	s.logger.Info().Int64("donation_id", d.ID).Int64("user_id", userID).Int("category_id", d.CategoryID).Msg("donation recorded")
	return d, nil
}

// SendMessage appends a chat message. The author name is resolved from the
// live privacy flag now and stored on the message.
func (s *Store) SendMessage(ctx context.Context, userID int64, text string) (domain.ChatMessage, error) {
	if err := checkContext(ctx); err != nil {
		return domain.ChatMessage{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return domain.ChatMessage{}, domain.ErrUnauthorized
	}
	msg := domain.ChatMessage{
		ID:       s.id(),
		UserID:   userID,
		UserName: sess.user.DisplayName(),
		Text:     text,
		SentAt:   s.now(),
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.publish(EventMessage, msg)
	return msg, nil
}

// Vote records one vote for optionID in pollID. The stored poll is replaced
// with the value returned by impact.RecordVote. An option outside the poll
// leaves the poll untouched and reports domain.ErrUnknownOption.
func (s *Store) Vote(ctx context.Context, userID, pollID, optionID int64) (domain.Poll, error) {
	if err := checkContext(ctx); err != nil {
		return domain.Poll{}, err
	}

	s.mu.Lock()
	if _, ok := s.sessions[userID]; !ok {
		s.mu.Unlock()
		return domain.Poll{}, domain.ErrUnauthorized
	}
	idx := -1
	for i, p := range s.polls {
		if p.ID == pollID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Poll{}, fmt.Errorf("%w: poll %d", domain.ErrNotFound, pollID)
	}
	next, ok := impact.RecordVote(s.polls[idx], optionID)
	if !ok {
		s.mu.Unlock()
		return next, fmt.Errorf("%w: option %d in poll %d", domain.ErrUnknownOption, optionID, pollID)
	}
	s.polls[idx] = next
	out := next.Clone()
	s.mu.Unlock()

	s.publish(EventPoll, out)
	return out, nil
}

// PostInput is the admin post form.
type PostInput struct {
	Title    string
	Content  string
	MediaURL string
}

// AddPost prepends a post to the transparency wall. Only admins may post.
func (s *Store) AddPost(ctx context.Context, userID int64, in PostInput) (domain.AdminPost, error) {
	if err := checkContext(ctx); err != nil {
		return domain.AdminPost{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.AdminPost{}, fmt.Errorf("%w: title is required", domain.ErrInvalidPost)
	}
	media := strings.TrimSpace(in.MediaURL)
	if media == "" {
		media = "https://picsum.photos/800/400?random=" + uuid.NewString()
	}

	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return domain.AdminPost{}, domain.ErrUnauthorized
	}
	if !sess.user.IsAdmin() {
		s.mu.Unlock()
		return domain.AdminPost{}, domain.ErrForbidden
	}
	post := domain.AdminPost{
		ID:       s.id(),
		Title:    title,
		Content:  in.Content,
		MediaURL: media,
		PostedAt: s.now(),
	}
	s.posts = append([]domain.AdminPost{post}, s.posts...)
	s.mu.Unlock()

	s.publish(EventPost, post)
	return post, nil
}
