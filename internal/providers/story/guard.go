package story

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
)

// ErrStale reports that a draft was abandoned while its generation was in
// flight. The result must not be applied to the form.
var ErrStale = errors.New("generation abandoned")

const defaultGuardTimeout = 20 * time.Second

type draft struct {
	ticket  uint64
	waiters int
	ctx     context.Context
	cancel  context.CancelFunc
}

// Guard serialises generation per draft. Concurrent requests for the same
// draft share one upstream call, every call runs under a timeout, and
// Abandon discards whatever is still in flight.
type Guard struct {
	gen     Generator
	timeout time.Duration
	group   singleflight.Group

	mu     sync.Mutex
	drafts map[string]*draft
}

// NewGuard wraps gen. A non-positive timeout selects the default.
func NewGuard(gen Generator, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = defaultGuardTimeout
	}
	return &Guard{
		gen:     gen,
		timeout: timeout,
		drafts:  make(map[string]*draft),
	}
}

// Generator returns the wrapped generator.
func (g *Guard) Generator() Generator {
	return g.gen
}

// Story generates a story for the draft identified by key. shared is true
// when the result came from a request another caller had already started.
func (g *Guard) Story(ctx context.Context, key, topic, keyPoints string) (text string, shared bool, err error) {
	ticket, flightCtx := g.join(key)
	defer g.leave(key)

	ch := g.group.DoChan("story:"+key+":"+strconv.FormatUint(ticket, 10), func() (any, error) {
		callCtx, cancel := context.WithTimeout(flightCtx, g.timeout)
		defer cancel()
		return g.gen.GenerateStory(callCtx, topic, keyPoints), nil
	})
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-flightCtx.Done():
		return "", false, ErrStale
	case res := <-ch:
		if err := ctx.Err(); err != nil {
			return "", res.Shared, err
		}
		if !g.current(key, ticket) {
			return "", res.Shared, ErrStale
		}
		return res.Val.(string), res.Shared, nil
	}
}

// Summary produces the dashboard impact summary. Concurrent dashboard loads
// share one upstream call.
func (g *Guard) Summary(ctx context.Context, recent []domain.Donation) string {
	v, _, _ := g.group.Do("summary", func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		return g.gen.SummarizeImpact(callCtx, recent), nil
	})
	return v.(string)
}

// InFlight reports whether a generation for key is running.
func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.drafts[key]
	return ok && d.waiters > 0
}

// Abandon invalidates every generation in flight for key and cancels the
// upstream call. Callers still waiting receive ErrStale.
func (g *Guard) Abandon(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.drafts[key]
	if !ok {
		return
	}
	d.ticket++
	if d.cancel != nil {
		d.cancel()
	}
	d.ctx, d.cancel = nil, nil
}

func (g *Guard) join(key string) (uint64, context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.drafts[key]
	if !ok {
		d = &draft{}
		g.drafts[key] = d
	}
	if d.ctx == nil {
		d.ctx, d.cancel = context.WithCancel(context.Background())
	}
	d.waiters++
	return d.ticket, d.ctx
}

func (g *Guard) leave(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.drafts[key]
	if !ok {
		return
	}
	d.waiters--
	if d.waiters <= 0 {
		if d.cancel != nil {
			d.cancel()
		}
		delete(g.drafts, key)
	}
}

func (g *Guard) current(key string, ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.drafts[key]
	return ok && d.ticket == ticket
}
