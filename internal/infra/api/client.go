package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quizdom/internal/app"
	"quizdom/internal/domain"
)

// Client talks to the quiz backend over its JSON HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp categoriesResponse
	if err := c.do(ctx, "list categories", http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

type startResponse struct {
	SessionToken string `json:"session_token"`
}

func (c *Client) StartQuiz(ctx context.Context, req app.StartRequest) (string, error) {
	var resp startResponse
	if err := c.do(ctx, "start quiz", http.MethodPost, "/api/quiz/start", req, &resp); err != nil {
		return "", err
	}
	return resp.SessionToken, nil
}

type questionResponse struct {
	Question struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	} `json:"question"`
	QuestionNumber int `json:"question_number"`
	TotalQuestions int `json:"total_questions"`
	CurrentScore   int `json:"current_score"`
}

func (c *Client) CurrentQuestion(ctx context.Context, token string) (domain.QuestionView, error) {
	var resp questionResponse
	path := "/api/quiz/" + url.PathEscape(token) + "/question"
	if err := c.do(ctx, "get question", http.MethodGet, path, nil, &resp); err != nil {
		return domain.QuestionView{}, err
	}
	return domain.QuestionView{
		Number:  resp.QuestionNumber,
		Total:   resp.TotalQuestions,
		Prompt:  resp.Question.Question,
		Options: resp.Question.Options,
		Score:   resp.CurrentScore,
	}, nil
}

type answerRequest struct {
	Answer     int    `json:"answer"`
	PlayerName string `json:"player_name"`
}

type finalStats struct {
	TotalScore     int     `json:"total_score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Accuracy       float64 `json:"accuracy"`
	TimeTaken      int     `json:"time_taken"`
}

type answerResponse struct {
	IsCorrect     bool        `json:"is_correct"`
	CorrectAnswer int         `json:"correct_answer"`
	Explanation   string      `json:"explanation"`
	PointsEarned  int         `json:"points_earned"`
	CurrentScore  int         `json:"current_score"`
	QuizCompleted bool        `json:"quiz_completed"`
	FinalStats    *finalStats `json:"final_stats"`
}

func (c *Client) SubmitAnswer(ctx context.Context, token string, answer int, playerName string) (domain.AnswerResult, error) {
	var resp answerResponse
	path := "/api/quiz/" + url.PathEscape(token) + "/answer"
	body := answerRequest{Answer: answer, PlayerName: playerName}
	if err := c.do(ctx, "submit answer", http.MethodPost, path, body, &resp); err != nil {
		return domain.AnswerResult{}, err
	}

	result := domain.AnswerResult{
		IsCorrect:     resp.IsCorrect,
		CorrectIndex:  resp.CorrectAnswer,
		PointsEarned:  resp.PointsEarned,
		UpdatedScore:  resp.CurrentScore,
		QuizCompleted: resp.QuizCompleted,
		Explanation:   resp.Explanation,
	}
	if fs := resp.FinalStats; fs != nil {
		result.FinalStats = &domain.FinalStats{
			TotalScore:     fs.TotalScore,
			CorrectAnswers: fs.CorrectAnswers,
			TotalQuestions: fs.TotalQuestions,
			Accuracy:       int(math.Round(fs.Accuracy)),
			TimeTaken:      fs.TimeTaken,
		}
	}
	return result, nil
}

type leaderboardEntry struct {
	ID         any     `json:"id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Category   string  `json:"category"`
	Difficulty string  `json:"difficulty"`
	Accuracy   float64 `json:"accuracy"`
	TimeTaken  int     `json:"time_taken"`
	Date       string  `json:"date"`
}

type leaderboardResponse struct {
	Leaderboard []leaderboardEntry `json:"leaderboard"`
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var resp leaderboardResponse
	path := "/api/leaderboard?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, "get leaderboard", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(resp.Leaderboard))
	for _, e := range resp.Leaderboard {
		entry := domain.LeaderboardEntry{
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Category:   e.Category,
			Difficulty: domain.Difficulty(e.Difficulty),
			Accuracy:   int(math.Round(e.Accuracy)),
			TimeTaken:  e.TimeTaken,
			Date:       e.Date,
		}
		if e.ID != nil {
			entry.ID = fmt.Sprint(e.ID)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// do sends one request and decodes a 2xx JSON body into out. Transport failures
// and any other status come back as *domain.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.NetworkError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
