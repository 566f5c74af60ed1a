package domain

// EventType tags an Event for renderers.
type EventType string

const (
	EventScreen       EventType = "screen"
	EventCategories   EventType = "categories"
	EventDifficulty   EventType = "difficulty"
	EventQuestion     EventType = "question"
	EventTimer        EventType = "timer"
	EventInput        EventType = "input"
	EventOutcome      EventType = "outcome"
	EventScore        EventType = "score"
	EventResults      EventType = "results"
	EventLeaderboard  EventType = "leaderboard"
	EventSettings     EventType = "settings"
	EventNotification EventType = "notification"
	EventSound        EventType = "sound"
	EventShare        EventType = "share"
)

// Event is a single UI update produced by a quiz session.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

type ScreenPayload struct {
	Screen Screen `json:"screen"`
}

type DifficultyPayload struct {
	Difficulty Difficulty `json:"difficulty"`
	CanStart   bool       `json:"canStart"`
}

type TimerPayload struct {
	Remaining int  `json:"remaining"`
	Warning   bool `json:"warning"`
}

type InputPayload struct {
	Enabled bool `json:"enabled"`
}

type ScorePayload struct {
	Score int `json:"score"`
}

// Outcome reveals how the current question resolved.
type Outcome struct {
	Selected      int    `json:"selected"` // -1 when the countdown expired
	CorrectIndex  int    `json:"correctIndex"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsEarned  int    `json:"pointsEarned"`
	Score         int    `json:"score"`
	TimedOut      bool   `json:"timedOut"`
	CanAdvance    bool   `json:"canAdvance"`
	QuizCompleted bool   `json:"quizCompleted"`
	Explanation   string `json:"explanation,omitempty"`
}

// SharePayload is the score message a player can post or copy.
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ResultsPayload struct {
	Stats   FinalStats `json:"stats"`
	Message string     `json:"message"`
}

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sound cues.
const (
	SoundSelect    = "select"
	SoundCorrect   = "correct"
	SoundIncorrect = "incorrect"
	SoundStart     = "start"
	SoundFinish    = "finish"
	SoundTimeUp    = "timeup"
)
