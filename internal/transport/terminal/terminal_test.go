package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdom/internal/app"
	"quizdom/internal/domain"
	"quizdom/internal/infra/memory"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newSession(out *syncBuffer, kv app.KVStore) *app.QuizSession {
	return app.NewQuizSession(app.Config{
		Bank: []domain.Question{
			{Prompt: "Which planet is closest to the Sun?", Options: []string{"Venus", "Mercury", "Earth", "Mars"}, CorrectIndex: 1, Difficulty: domain.DifficultyEasy, Category: "science", Explanation: "Mercury orbits closest."},
		},
		Catalog:     app.NewCategoryCatalog(nil, memory.StaticCategories()),
		Settings:    app.NewSettingsStore(kv),
		Leaderboard: app.NewLeaderboardStore(nil, kv),
		Players:     app.NewPlayerStore(kv, nil),
		Renderer:    NewRenderer(out),
	})
}

func TestConsolePlaysQuiz(t *testing.T) {
	out := &syncBuffer{}
	kv := memory.NewKVStore()
	session := newSession(out, kv)
	defer session.Close()
	session.Init(context.Background())

	input := strings.Join([]string{
		"name Grace Hopper",
		"play",
		"category science",
		"difficulty easy",
		"start",
		"b",
		"n",
		"share",
		"leaderboard",
		"exit",
	}, "\n")
	require.NoError(t, NewConsole(session, strings.NewReader(input), out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "== QUIZDOM ==")
	assert.Contains(t, text, "science")
	assert.Contains(t, text, "Question 1/1")
	assert.Contains(t, text, "  b) Mercury")
	assert.Contains(t, text, "[success] Correct! +5 points")
	assert.Contains(t, text, "Mercury orbits closest.")
	assert.Contains(t, text, "Accuracy: 100%")
	assert.Contains(t, text, "Outstanding! You're a true quiz master!")
	assert.Contains(t, text, "Share: 🎯 I just scored 5 points on QUIZDOM!")
	assert.Contains(t, text, "🥇")
	assert.Contains(t, text, "Grace Hopper")
	assert.Equal(t, app.StateCompleted, session.Snapshot().State)
}

func TestConsoleReportsErrors(t *testing.T) {
	out := &syncBuffer{}
	session := newSession(out, memory.NewKVStore())
	defer session.Close()

	input := "start\ncategory cooking\nfly\nset on 0 5\n"
	require.NoError(t, NewConsole(session, strings.NewReader(input), out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "[warning] Please select a category and difficulty level.")
	assert.Contains(t, text, `unknown category "cooking"`)
	assert.Contains(t, text, `unknown command "fly"`)
	assert.Contains(t, text, "timerDuration: must be a positive whole number")
}

func TestRendererShowsWrongAnswerReveal(t *testing.T) {
	out := &syncBuffer{}
	r := NewRenderer(out)
	r.Render(domain.Event{Type: domain.EventQuestion, Payload: domain.QuestionView{Number: 2, Total: 3, Prompt: "2+2?", Options: []string{"3", "4"}}})
	r.Render(domain.Event{Type: domain.EventOutcome, Payload: domain.Outcome{Selected: 0, CorrectIndex: 1, CanAdvance: true}})
	r.Render(domain.Event{Type: domain.EventTimer, Payload: domain.TimerPayload{Remaining: 10, Warning: true}})
	r.Render(domain.Event{Type: domain.EventTimer, Payload: domain.TimerPayload{Remaining: 8, Warning: true}})
	r.Render(domain.Event{Type: domain.EventLeaderboard, Payload: []domain.RankedEntry{}})

	text := out.String()
	assert.Contains(t, text, "Question 2/3")
	assert.Contains(t, text, "Correct answer: b) 4")
	assert.Contains(t, text, "Press n for the next question.")
	assert.Contains(t, text, "10s left")
	assert.NotContains(t, text, "8s left")
	assert.Contains(t, text, "No scores yet")
}

func TestAnswerIndex(t *testing.T) {
	for key, want := range map[string]int{"a": 0, "b": 1, "c": 2, "d": 3} {
		got, ok := AnswerIndex(key)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, key := range []string{"e", "", "ab", "1"} {
		_, ok := AnswerIndex(key)
		assert.False(t, ok, key)
	}
}
