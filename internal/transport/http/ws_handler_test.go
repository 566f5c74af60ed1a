package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizdom/internal/app"
	"quizdom/internal/domain"
	"quizdom/internal/infra/memory"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.SessionRegistry, *memory.KVStore) {
	t.Helper()
	kv := memory.NewKVStore()
	bank := []domain.Question{
		{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1, Difficulty: domain.DifficultyEasy, Category: "science"},
	}
	factory := func(r app.Renderer) *app.QuizSession {
		return app.NewQuizSession(app.Config{
			Bank:        bank,
			Catalog:     app.NewCategoryCatalog(nil, memory.StaticCategories()),
			Settings:    app.NewSettingsStore(kv),
			Leaderboard: app.NewLeaderboardStore(nil, kv),
			Players:     app.NewPlayerStore(kv, nil),
			Renderer:    r,
		})
	}
	registry := memory.NewSessionRegistry()
	server := httptest.NewServer(NewRouter(NewWSHandler(factory, registry), registry))
	t.Cleanup(server.Close)
	return server, registry, kv
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil skips messages until one of type expect arrives.
func readUntil(t *testing.T, conn *websocket.Conn, expect string) json.RawMessage {
	t.Helper()
	for i := 0; i < 50; i++ {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", expect, err)
		}
		if msg.Type == expect {
			return msg.Payload
		}
	}
	t.Fatalf("no %s message within 50 reads", expect)
	return nil
}

func TestWebSocketPlaysLocalQuiz(t *testing.T) {
	server, registry, _ := newTestServer(t)
	conn := dial(t, server)

	var screen domain.ScreenPayload
	_ = json.Unmarshal(readUntil(t, conn, "screen"), &screen)
	if screen.Screen != domain.ScreenMainMenu {
		t.Fatalf("expected main menu first, got %s", screen.Screen)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 registered session, got %d", registry.Len())
	}

	send(t, conn, "player", map[string]any{"name": "Alice"})
	send(t, conn, "category", map[string]any{"key": "science"})
	send(t, conn, "difficulty", map[string]any{"difficulty": "easy"})
	var difficulty domain.DifficultyPayload
	_ = json.Unmarshal(readUntil(t, conn, "difficulty"), &difficulty)
	if difficulty.CanStart {
		t.Fatalf("expected start disabled right after picking a category")
	}
	_ = json.Unmarshal(readUntil(t, conn, "difficulty"), &difficulty)
	if !difficulty.CanStart || difficulty.Difficulty != domain.DifficultyEasy {
		t.Fatalf("expected start enabled for easy, got %+v", difficulty)
	}

	send(t, conn, "start", nil)
	var question domain.QuestionView
	_ = json.Unmarshal(readUntil(t, conn, "question"), &question)
	if question.Prompt != "What is 2 + 2?" || question.Total != 1 {
		t.Fatalf("unexpected question: %+v", question)
	}

	send(t, conn, "answer", map[string]any{"index": 1})
	var outcome domain.Outcome
	_ = json.Unmarshal(readUntil(t, conn, "outcome"), &outcome)
	if !outcome.IsCorrect || outcome.Score != 5 || !outcome.CanAdvance {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	send(t, conn, "next", nil)
	var results domain.ResultsPayload
	_ = json.Unmarshal(readUntil(t, conn, "results"), &results)
	if results.Stats.TotalScore != 5 || results.Stats.Accuracy != 100 {
		t.Fatalf("unexpected results: %+v", results)
	}

	send(t, conn, "share", nil)
	var share domain.SharePayload
	_ = json.Unmarshal(readUntil(t, conn, "share"), &share)
	if share.Text != "🎯 I just scored 5 points on QUIZDOM! Can you beat my score? Try it now!" {
		t.Fatalf("unexpected share text: %q", share.Text)
	}

	send(t, conn, "show", map[string]any{"screen": "leaderboard"})
	var ranked []domain.RankedEntry
	_ = json.Unmarshal(readUntil(t, conn, "leaderboard"), &ranked)
	if len(ranked) != 1 || ranked[0].Entry.PlayerName != "Alice" || ranked[0].Rank != "🥇" {
		t.Fatalf("unexpected leaderboard: %+v", ranked)
	}
}

func TestWebSocketReportsRejectedActions(t *testing.T) {
	server, _, _ := newTestServer(t)
	conn := dial(t, server)
	readUntil(t, conn, "screen")

	send(t, conn, "start", nil)
	var failure errorPayload
	_ = json.Unmarshal(readUntil(t, conn, "error"), &failure)
	if failure.Message == "" {
		t.Fatalf("expected validation error message")
	}

	send(t, conn, "category", map[string]any{"key": "cooking"})
	_ = json.Unmarshal(readUntil(t, conn, "error"), &failure)
	if failure.Message == "" {
		t.Fatalf("expected unknown category error")
	}

	send(t, conn, "settings", map[string]any{"soundEnabled": false, "timerDuration": 20, "questionsPerQuiz": "5"})
	var saved domain.Settings
	_ = json.Unmarshal(readUntil(t, conn, "settings"), &saved)
	if saved.TimerDuration != 20 || saved.QuestionsPerQuiz != 5 || saved.SoundEnabled {
		t.Fatalf("unexpected settings: %+v", saved)
	}

	send(t, conn, "bogus", nil)
	_ = json.Unmarshal(readUntil(t, conn, "error"), &failure)
	if failure.Message != `unsupported message type "bogus"` {
		t.Fatalf("unexpected error: %q", failure.Message)
	}
}

func TestHealthAndStats(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected healthz: %d %s", resp.StatusCode, body)
	}

	resp, err = http.Get(server.URL + "/stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	defer resp.Body.Close()
	var stats map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["sessions"] != 0 {
		t.Fatalf("expected no sessions, got %d", stats["sessions"])
	}
}
