package app

import (
	"context"
	"fmt"
	"math"
	"sync"

	"quizdom/internal/domain"
)

// NoAnswer is submitted when the countdown expires before the player answers.
const NoAnswer = -1

// Mode tags which QuestionSource a quiz runs on.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// QuestionSource serves one question at a time and evaluates answers to it.
type QuestionSource interface {
	Mode() Mode
	Next(ctx context.Context) (domain.QuestionView, error)
	Submit(ctx context.Context, answer int) (domain.AnswerResult, error)
	// Forfeit resolves the current question with no answer selected.
	Forfeit(ctx context.Context) (domain.AnswerResult, error)
}

// finiteSource knows its quiz length up front, so the session can tell when it
// is exhausted.
type finiteSource interface {
	Total() int
	Remaining() bool
}

// RemoteQuestionSource routes questions and answers through a backend session.
type RemoteQuestionSource struct {
	backend Backend
	token   string
	player  func(context.Context) string
}

func NewRemoteQuestionSource(backend Backend, token string, player func(context.Context) string) *RemoteQuestionSource {
	return &RemoteQuestionSource{backend: backend, token: token, player: player}
}

func (s *RemoteQuestionSource) Mode() Mode { return ModeRemote }

func (s *RemoteQuestionSource) Next(ctx context.Context) (domain.QuestionView, error) {
	if s.token == "" {
		return domain.QuestionView{}, domain.ErrSession
	}
	return s.backend.CurrentQuestion(ctx, s.token)
}

func (s *RemoteQuestionSource) Submit(ctx context.Context, answer int) (domain.AnswerResult, error) {
	if s.token == "" {
		return domain.AnswerResult{}, domain.ErrSession
	}
	name := DefaultPlayerName
	if s.player != nil {
		name = s.player(ctx)
	}
	return s.backend.SubmitAnswer(ctx, s.token, answer, name)
}

func (s *RemoteQuestionSource) Forfeit(ctx context.Context) (domain.AnswerResult, error) {
	result, err := s.Submit(ctx, NoAnswer)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	result.IsCorrect = false
	result.PointsEarned = 0
	return result, nil
}

// LocalQuestionSource plays a pre-filtered list of bank questions. It only grades
// the question it served last; score and stats belong to the session.
type LocalQuestionSource struct {
	questions  []domain.Question
	difficulty domain.Difficulty

	mu     sync.Mutex
	served int
}

// NewLocalQuestionSource selects up to count questions from bank for the category
// and difficulty. Unknown categories fall back to science. When the difficulty has
// too few questions, the rest of the category pads the list.
func NewLocalQuestionSource(bank []domain.Question, categoryKey string, difficulty domain.Difficulty, count int) *LocalQuestionSource {
	return &LocalQuestionSource{
		questions:  selectQuestions(bank, categoryKey, difficulty, count),
		difficulty: difficulty,
	}
}

// FallbackCategory is used when the bank has no questions for the picked category.
const FallbackCategory = "science"

func selectQuestions(bank []domain.Question, categoryKey string, difficulty domain.Difficulty, count int) []domain.Question {
	inCategory := filterCategory(bank, categoryKey)
	if len(inCategory) == 0 {
		inCategory = filterCategory(bank, FallbackCategory)
	}
	if len(inCategory) == 0 {
		inCategory = bank
	}

	selected := make([]domain.Question, 0, count)
	for _, q := range inCategory {
		if q.Difficulty == difficulty && len(selected) < count {
			selected = append(selected, q)
		}
	}
	for _, q := range inCategory {
		if len(selected) >= count {
			break
		}
		if q.Difficulty != difficulty {
			selected = append(selected, q)
		}
	}
	return selected
}

func filterCategory(bank []domain.Question, key string) []domain.Question {
	var out []domain.Question
	for _, q := range bank {
		if q.Category == key {
			out = append(out, q)
		}
	}
	return out
}

func (s *LocalQuestionSource) Mode() Mode { return ModeLocal }

// Total is the number of questions in this quiz.
func (s *LocalQuestionSource) Total() int { return len(s.questions) }

// Remaining reports whether questions are left to serve.
func (s *LocalQuestionSource) Remaining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served < len(s.questions)
}

func (s *LocalQuestionSource) Next(_ context.Context) (domain.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.served >= len(s.questions) {
		return domain.QuestionView{}, fmt.Errorf("no more questions: %w", domain.ErrInvalidTransition)
	}
	q := s.questions[s.served]
	s.served++
	return domain.QuestionView{
		Number:  s.served,
		Total:   len(s.questions),
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}, nil
}

// Submit grades answer against the question served last. Grading is repeatable
// and does not advance the quiz.
func (s *LocalQuestionSource) Submit(_ context.Context, answer int) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.served == 0 {
		return domain.AnswerResult{}, fmt.Errorf("no question served: %w", domain.ErrInvalidTransition)
	}
	q := s.questions[s.served-1]
	if answer != NoAnswer && (answer < 0 || answer >= len(q.Options)) {
		return domain.AnswerResult{}, domain.ErrInvalidAnswer
	}

	result := domain.AnswerResult{
		IsCorrect:     answer == q.CorrectIndex,
		CorrectIndex:  q.CorrectIndex,
		Explanation:   q.Explanation,
		QuizCompleted: s.served == len(s.questions),
	}
	if result.IsCorrect {
		result.PointsEarned = s.difficulty.Points()
	}
	return result, nil
}

func (s *LocalQuestionSource) Forfeit(ctx context.Context) (domain.AnswerResult, error) {
	return s.Submit(ctx, NoAnswer)
}

// Accuracy is round(correct/total*100); total must be positive.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
