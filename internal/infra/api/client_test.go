package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdom/internal/app"
	"quizdom/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"categories": []map[string]any{
			{"id": 3, "name": "technology", "display_name": "Technology", "icon": "💻", "question_count": 12},
		}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/start", func(w http.ResponseWriter, req *http.Request) {
		var body app.StartRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.CategoryID == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing category_id or difficulty"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"session_token": "abc123", "message": "Quiz session started successfully"})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/quiz/{token}/question", func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)["token"] != "abc123" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Quiz session not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"question":        map[string]any{"id": 9, "question": "What does CPU stand for?", "options": []string{"a", "b", "c", "d"}},
			"question_number": 2,
			"total_questions": 5,
			"current_score":   10,
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/{token}/answer", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Answer     int    `json:"answer"`
			PlayerName string `json:"player_name"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Answer < 0 || body.Answer > 3 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid answer format"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"is_correct":     true,
			"correct_answer": body.Answer,
			"explanation":    "Central Processing Unit",
			"points_earned":  10,
			"current_score":  20,
			"quiz_completed": body.PlayerName == "Finisher",
			"final_stats": map[string]any{
				"total_score": 20, "correct_answers": 2, "total_questions": 3, "accuracy": 66.7, "time_taken": 31,
			},
		})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "50", req.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"leaderboard": []map[string]any{
			{"id": 7, "player_name": "Ada", "score": 45, "category": "Science", "difficulty": "hard", "accuracy": 87.5, "time_taken": 120, "date": "2024-05-01"},
		}, "total_entries": 1})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientContract(t *testing.T) {
	ctx := context.Background()
	client := NewClient(newFakeBackend(t).URL+"/", time.Second)

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, 3, categories[0].BackendID())
	assert.Equal(t, 12, categories[0].QuestionCount)

	token, err := client.StartQuiz(ctx, app.StartRequest{CategoryID: 3, Difficulty: domain.DifficultyMedium, QuestionsCount: 5})
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	view, err := client.CurrentQuestion(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionView{Number: 2, Total: 5, Prompt: "What does CPU stand for?", Options: []string{"a", "b", "c", "d"}, Score: 10}, view)

	result, err := client.SubmitAnswer(ctx, token, 1, "Ada")
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1, result.CorrectIndex)
	assert.Equal(t, 20, result.UpdatedScore)
	assert.Equal(t, "Central Processing Unit", result.Explanation)
	assert.False(t, result.QuizCompleted)

	result, err = client.SubmitAnswer(ctx, token, 2, "Finisher")
	require.NoError(t, err)
	require.True(t, result.QuizCompleted)
	require.NotNil(t, result.FinalStats)
	assert.Equal(t, 67, result.FinalStats.Accuracy)
	assert.Equal(t, 3, result.FinalStats.TotalQuestions)

	entries, err := client.Leaderboard(ctx, app.LeaderboardLimit)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "7", entries[0].ID)
	assert.Equal(t, 88, entries[0].Accuracy)
	assert.Equal(t, domain.DifficultyHard, entries[0].Difficulty)
}

func TestClientReportsNetworkErrors(t *testing.T) {
	ctx := context.Background()
	client := NewClient(newFakeBackend(t).URL, time.Second)

	_, err := client.StartQuiz(ctx, app.StartRequest{})
	var nerr *domain.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, http.StatusBadRequest, nerr.Status)
	assert.ErrorIs(t, err, domain.ErrNetwork)

	_, err = client.CurrentQuestion(ctx, "missing")
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, http.StatusNotFound, nerr.Status)

	_, err = client.SubmitAnswer(ctx, "abc123", app.NoAnswer, "Ada")
	require.ErrorIs(t, err, domain.ErrNetwork)

	offline := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err = offline.Categories(ctx)
	require.ErrorAs(t, err, &nerr)
	assert.Zero(t, nerr.Status)
}
