package memory

import (
	"context"
	"sync"

	"quizdom/internal/app"
)

// SessionRegistry is an in-memory implementation of app.SessionRegistry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*app.QuizSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*app.QuizSession),
	}
}

func (r *SessionRegistry) Register(_ context.Context, clientID string, session *app.QuizSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[clientID] = session
}

func (r *SessionRegistry) Get(clientID string) (*app.QuizSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[clientID]
	return session, ok
}

// Unregister drops the client and stops its session.
func (r *SessionRegistry) Unregister(_ context.Context, clientID string) {
	r.mu.Lock()
	session, ok := r.sessions[clientID]
	delete(r.sessions, clientID)
	r.mu.Unlock()
	if ok {
		session.Close()
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) CloseAll(_ context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*app.QuizSession)
	r.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}
