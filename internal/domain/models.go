package domain

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Difficulty is the level a quiz is played at.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes user input into a Difficulty.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(raw))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", raw)}
}

// Points is the award for a correct answer at this difficulty.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyMedium:
		return 10
	case DifficultyHard:
		return 15
	default:
		return 5
	}
}

// categoryIDs maps well-known category names to backend IDs.
var categoryIDs = map[string]int{
	"science":       1,
	"history":       2,
	"technology":    3,
	"sports":        4,
	"arts":          5,
	"geography":     6,
	"entertainment": 7,
	"general":       8,
}

// Category groups questions by topic.
type Category struct {
	ID            int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string `json:"name" yaml:"name"`
	DisplayName   string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	QuestionCount int    `json:"question_count,omitempty" yaml:"-"`
}

// Key identifies the category locally: its name, or a slug of its display name.
func (c Category) Key() string {
	if c.Name != "" {
		return c.Name
	}
	return slug.Make(c.DisplayName)
}

// Label is the human readable name.
func (c Category) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// BackendID returns the ID the backend knows this category by.
func (c Category) BackendID() int {
	if c.ID > 0 {
		return c.ID
	}
	if id, ok := categoryIDs[c.Key()]; ok {
		return id
	}
	return 1
}

// Question models a four-option multiple choice question.
type Question struct {
	Prompt       string     `json:"question" yaml:"question"`
	Options      []string   `json:"options" yaml:"options"`
	CorrectIndex int        `json:"correct" yaml:"correct"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	Category     string     `json:"category" yaml:"category"`
	Explanation  string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// QuestionView is the question as shown to the player, without the answer.
type QuestionView struct {
	Number  int      `json:"number"`
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Score   int      `json:"score"`
}

// AnswerResult is the outcome of one answer, produced locally or by the backend.
type AnswerResult struct {
	IsCorrect     bool        `json:"isCorrect"`
	CorrectIndex  int         `json:"correctIndex"`
	PointsEarned  int         `json:"pointsEarned"`
	UpdatedScore  int         `json:"updatedScore"`
	QuizCompleted bool        `json:"quizCompleted"`
	FinalStats    *FinalStats `json:"finalStats,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
}

// FinalStats summarizes a finished quiz.
type FinalStats struct {
	TotalScore     int `json:"totalScore"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
	Accuracy       int `json:"accuracy"`
	TimeTaken      int `json:"timeTaken"` // seconds
}

// LeaderboardEntry is one historical quiz result.
type LeaderboardEntry struct {
	ID         string     `json:"id,omitempty"`
	PlayerName string     `json:"player_name"`
	Score      int        `json:"score"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Accuracy   int        `json:"accuracy"`
	TimeTaken  int        `json:"time_taken"`
	Date       string     `json:"date"`
}

// RankedEntry is a leaderboard entry with its display rank.
type RankedEntry struct {
	Position int              `json:"position"`
	Rank     string           `json:"rank"`
	Entry    LeaderboardEntry `json:"entry"`
}

// Settings holds the player's preferences.
type Settings struct {
	SoundEnabled     bool `json:"soundEnabled"`
	TimerDuration    int  `json:"timerDuration"`
	QuestionsPerQuiz int  `json:"questionsPerQuiz"`
}

// DefaultSettings apply when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{SoundEnabled: true, TimerDuration: 30, QuestionsPerQuiz: 10}
}

// Screen names a UI screen.
type Screen string

const (
	ScreenMainMenu            Screen = "main-menu"
	ScreenCategorySelection   Screen = "category-selection"
	ScreenDifficultySelection Screen = "difficulty-selection"
	ScreenGame                Screen = "game-screen"
	ScreenResults             Screen = "results-screen"
	ScreenLeaderboard         Screen = "leaderboard"
	ScreenSettings            Screen = "settings"
)

// ParseScreen validates a screen name.
func ParseScreen(raw string) (Screen, error) {
	switch s := Screen(raw); s {
	case ScreenMainMenu, ScreenCategorySelection, ScreenDifficultySelection,
		ScreenGame, ScreenResults, ScreenLeaderboard, ScreenSettings:
		return s, nil
	}
	return "", &ValidationError{Field: "screen", Message: fmt.Sprintf("unknown screen %q", raw)}
}

// ShareMessage is the text offered for sharing a final score.
func ShareMessage(score int) string {
	return fmt.Sprintf("🎯 I just scored %d points on QUIZDOM! Can you beat my score? Try it now!", score)
}

// PerformanceMessage is the results-screen verdict for an accuracy percent.
func PerformanceMessage(accuracy int) string {
	switch {
	case accuracy >= 90:
		return "Outstanding! You're a true quiz master!"
	case accuracy >= 80:
		return "Excellent performance! Well done!"
	case accuracy >= 70:
		return "Good job! Keep up the great work!"
	case accuracy >= 60:
		return "Not bad! Room for improvement!"
	default:
		return "Keep practicing! You'll get better!"
	}
}
