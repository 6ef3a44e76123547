package sessions

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexmines/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// Session owns one game. Every access to the game goes through Do.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	game     *mines.Game
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's game.
func (s *Session) Do(fn func(*mines.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

type Option func(*Registry)

// WithOnEnd registers fn to run when a game of the registry ends. fn runs
// while the session is locked and must not call back into the registry.
func WithOnEnd(fn func(id uuid.UUID, g *mines.Game)) Option {
	return func(r *Registry) {
		r.onEnd = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// Registry keeps the games being played in memory, keyed by session id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	adjacency *mines.AdjacencyCache
	now       func() time.Time
	onEnd     func(uuid.UUID, *mines.Game)
	log       *logrus.Logger
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions:  make(map[uuid.UUID]*Session),
		adjacency: &mines.AdjacencyCache{},
		now:       time.Now,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (r *Registry) Create(params mines.GameParams) (*Session, error) {
	id := uuid.New()
	opts := []mines.Option{mines.WithClock(r.now)}
	if r.onEnd != nil {
		opts = append(opts, mines.WithOnEnd(func(g *mines.Game) {
			r.onEnd(id, g)
		}))
	}

	game, err := mines.NewGame(params, r.adjacency, createRand(), opts...)
	if err != nil {
		return nil, err
	}

	s := &Session{ID: id, game: game, lastUsed: r.now()}
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"session": id,
		"seed":    params.Seed(),
	}).Debug("created session")
	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Do runs fn on the game of session id and marks the session as used.
func (r *Registry) Do(id uuid.UUID, fn func(*mines.Game) error) error {
	s, ok := r.Get(id)
	if !ok {
		return ErrNotFound
	}
	return s.Do(func(g *mines.Game) error {
		s.lastUsed = r.now()
		return fn(g)
	})
}

// Delete ends the game of session id and forgets it.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	s.Do(func(g *mines.Game) error {
		g.End()
		return nil
	})
	r.log.WithField("session", id).Debug("deleted session")
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap deletes every session unused for longer than ttl and returns how
// many were removed.
func (r *Registry) Reap(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.RLock()
	var stale []uuid.UUID
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	reaped := 0
	for _, id := range stale {
		if r.Delete(id) == nil {
			reaped++
		}
	}
	if reaped > 0 {
		r.log.WithFields(logrus.Fields{
			"reaped":    reaped,
			"remaining": r.Len(),
		}).Info("reaped idle sessions")
	}
	return reaped
}

// Run reaps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, ttl, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Reap(ttl)
		}
	}
}
