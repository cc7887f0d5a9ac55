// Package state holds the application state: every collection the client
// works with, owned by a single Store and changed only through its named
// operations. Reads hand out copies so no caller can mutate state behind the
// Store's back.
package state

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/seed"
)

// EventKind tags a state change that observers may want to fan out.
type EventKind string

const (
	EventMessage EventKind = "message"
	EventPoll    EventKind = "poll"
	EventPost    EventKind = "post"
)

// Event describes one state change. Payload is a copy of the changed value.
type Event struct {
	Kind    EventKind `json:"type"`
	Payload any       `json:"payload"`
}

// Publisher receives events after the Store has applied a change.
type Publisher interface {
	Publish(Event)
}

// Options configures a Store.
type Options struct {
	Now       func() time.Time
	Intn      func(n int) int
	Publisher Publisher
	Logger    *zerolog.Logger
}

type session struct {
	id   string
	user domain.User
	view domain.View
}

// Store is the process-wide application state.
type Store struct {
	mu sync.RWMutex

	now    func() time.Time
	intn   func(int) int
	pub    Publisher
	logger zerolog.Logger

	nextID     int64
	categories []domain.Category
	sessions   map[int64]*session
	knownUsers map[int64]struct{}
	donations  []domain.Donation
	posts      []domain.AdminPost
	messages   []domain.ChatMessage
	polls      []domain.Poll
}

// New builds a Store seeded from cat.
func New(cat *seed.Catalogue, opts Options) *Store {
	s := &Store{
		now:        opts.Now,
		intn:       opts.Intn,
		pub:        opts.Publisher,
		logger:     zerolog.Nop(),
		sessions:   make(map[int64]*session),
		knownUsers: make(map[int64]struct{}),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.intn == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		var mu sync.Mutex
		s.intn = func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			return rng.Intn(n)
		}
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}
	if cat != nil {
		s.categories = append(s.categories, cat.Categories...)
		s.donations = append(s.donations, cat.Donations...)
		s.posts = append(s.posts, cat.Posts...)
		s.messages = append(s.messages, cat.Messages...)
		for _, p := range cat.Polls {
			s.polls = append(s.polls, p.Clone())
		}
	}
	for _, d := range s.donations {
		s.knownUsers[d.UserID] = struct{}{}
	}
	for _, m := range s.messages {
		s.knownUsers[m.UserID] = struct{}{}
	}
	s.nextID = s.maxSeededID() + 1
	return s
}

func (s *Store) maxSeededID() int64 {
	var max int64
	bump := func(id int64) {
		if id > max {
			max = id
		}
	}
	for _, d := range s.donations {
		bump(d.ID)
	}
	for _, p := range s.posts {
		bump(p.ID)
	}
	for _, m := range s.messages {
		bump(m.ID)
	}
	return max
}

// id must be called with mu held for writing.
func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) publish(kind EventKind, payload any) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(Event{Kind: kind, Payload: payload})
}

// Categories returns the fixed category set.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

// Donations returns every donation, most recent first.
func (s *Store) Donations() []domain.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Donation(nil), s.donations...)
}

// DonationsFor returns the donations made by userID, most recent first.
func (s *Store) DonationsFor(userID int64) []domain.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Donation, 0)
	for _, d := range s.donations {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out
}

// Posts returns the transparency wall, newest first.
func (s *Store) Posts() []domain.AdminPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AdminPost(nil), s.posts...)
}

// Messages returns the chat log in send order.
func (s *Store) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatMessage(nil), s.messages...)
}

// Polls returns every poll.
func (s *Store) Polls() []domain.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		out = append(out, p.Clone())
	}
	return out
}

// Poll returns the poll with the given id.
func (s *Store) Poll(pollID int64) (domain.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.polls {
		if p.ID == pollID {
			return p.Clone(), nil
		}
	}
	return domain.Poll{}, domain.ErrNotFound
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
