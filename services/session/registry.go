package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Factory builds a controller for a new session. token is the bearer token
// the client presented, or "".
type Factory func(token string) *Controller

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Registry holds the live sessions of this process, keyed by session id.
type Registry struct {
	newController Factory
	logger        *zap.Logger
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(factory Factory, logger *zap.Logger) *Registry {
	return &Registry{
		newController: factory,
		logger:        logger,
		now:           time.Now,
		sessions:      make(map[string]*entry),
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create(token string) (string, *Controller) {
	id := uuid.NewString()
	ctrl := r.newController(token)
	ctrl.Start()

	r.mu.Lock()
	r.sessions[id] = &entry{ctrl: ctrl, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("sessionId", id))
	return id, ctrl
}

// Get returns the session's controller and marks the session as used.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.ctrl, nil
}

// Remove closes and forgets a session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.ctrl.Close()
	r.logger.Info("session closed", zap.String("sessionId", id))
	return nil
}

// Sweep closes sessions unused for longer than idle and returns how many
// were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var expired []*Controller
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range all {
		e.ctrl.Close()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
