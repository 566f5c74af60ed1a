package app

import (
	"context"
	"encoding/json"
	"errors"

	"quizdom/internal/domain"
)

// Keys used in the client-local store.
const (
	SettingsKey    = "quizdom_settings"
	LeaderboardKey = "quizdom_leaderboard"
	PlayerNameKey  = "quizdom_player_name"
)

// KVStore abstracts the client-local key-value store (in-memory, SQLite file, Redis).
// Get returns domain.ErrNotFound for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StartRequest opens a quiz session on the backend.
type StartRequest struct {
	CategoryID     int               `json:"category_id"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	QuestionsCount int               `json:"questions_count"`
}

// Backend is the quiz HTTP API.
type Backend interface {
	CategoryRepository
	StartQuiz(ctx context.Context, req StartRequest) (string, error)
	CurrentQuestion(ctx context.Context, token string) (domain.QuestionView, error)
	SubmitAnswer(ctx context.Context, token string, answer int, playerName string) (domain.AnswerResult, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// CategoryRepository loads categories, possibly through a cache.
type CategoryRepository interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Renderer receives every UI update a session produces. Implementations must be
// safe for concurrent use and must not call back into the session.
type Renderer interface {
	Render(domain.Event)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(domain.Event)

func (f RendererFunc) Render(e domain.Event) { f(e) }

type discardRenderer struct{}

func (discardRenderer) Render(domain.Event) {}

func getJSON(ctx context.Context, kv KVStore, key string, v any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, kv KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}

// SessionRegistry tracks the live sessions of a server, one per connected client.
type SessionRegistry interface {
	Register(ctx context.Context, clientID string, session *QuizSession)
	Unregister(ctx context.Context, clientID string)
	Len() int
	// CloseAll stops every registered session; servers call it on shutdown.
	CloseAll(ctx context.Context)
}
