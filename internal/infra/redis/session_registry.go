package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizdom/internal/app"
)

// SessionRegistry is a Redis-aware implementation of app.SessionRegistry.
// Sessions themselves stay in process; Redis only carries a liveness marker per
// connected client so other tooling can count players across instances.
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	prefix   string
	mu       sync.RWMutex
	sessions map[string]*app.QuizSession
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration, prefix string) *SessionRegistry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
		prefix:   prefix,
		sessions: make(map[string]*app.QuizSession),
	}
}

func (r *SessionRegistry) Register(ctx context.Context, clientID string, session *app.QuizSession) {
	r.mu.Lock()
	r.sessions[clientID] = session
	r.mu.Unlock()
	// best-effort liveness marker
	_ = r.client.Set(ctx, r.key(clientID), "1", r.ttl).Err()
}

func (r *SessionRegistry) Unregister(ctx context.Context, clientID string) {
	r.mu.Lock()
	session, ok := r.sessions[clientID]
	delete(r.sessions, clientID)
	r.mu.Unlock()
	if ok {
		session.Close()
	}
	_ = r.client.Del(ctx, r.key(clientID)).Err()
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll stops every local session and drops their liveness markers.
func (r *SessionRegistry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*app.QuizSession)
	r.mu.Unlock()

	keys := make([]string, 0, len(sessions))
	for clientID, session := range sessions {
		session.Close()
		keys = append(keys, r.key(clientID))
	}
	if len(keys) > 0 {
		_ = r.client.Del(ctx, keys...).Err()
	}
}

func (r *SessionRegistry) key(clientID string) string {
	return r.prefix + "client:" + clientID
}
