package terminal

import (
	"fmt"
	"io"
	"sync"

	"quizdom/internal/domain"
)

var screenTitles = map[domain.Screen]string{
	domain.ScreenMainMenu:            "QUIZDOM",
	domain.ScreenCategorySelection:   "Choose a category",
	domain.ScreenDifficultySelection: "Choose a difficulty",
	domain.ScreenGame:                "Quiz",
	domain.ScreenResults:             "Results",
	domain.ScreenLeaderboard:         "Leaderboard",
	domain.ScreenSettings:            "Settings",
}

var screenHints = map[domain.Screen]string{
	domain.ScreenMainMenu:            "commands: play, leaderboard, settings, exit",
	domain.ScreenCategorySelection:   "type: category <name>",
	domain.ScreenDifficultySelection: "type: difficulty easy|medium|hard, then start",
	domain.ScreenGame:                "answer with a-d, n for next, q to end",
	domain.ScreenResults:             "commands: restart, menu, leaderboard, exit",
	domain.ScreenLeaderboard:         "commands: menu, play",
	domain.ScreenSettings:            "type: set <sound on|off> <timer seconds> <questions>",
}

// Renderer prints session events as plain text.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	question domain.QuestionView
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) Render(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch p := e.Payload.(type) {
	case domain.ScreenPayload:
		fmt.Fprintf(r.out, "\n== %s ==\n", screenTitles[p.Screen])
		if hint := screenHints[p.Screen]; hint != "" {
			fmt.Fprintf(r.out, "(%s)\n", hint)
		}
	case []domain.Category:
		for _, c := range p {
			fmt.Fprintf(r.out, "  %-14s %s %s\n", c.Key(), c.Icon, c.Label())
		}
	case domain.DifficultyPayload:
		if p.CanStart {
			fmt.Fprintf(r.out, "Difficulty set to %s (%d points per answer). Type start.\n", p.Difficulty, p.Difficulty.Points())
		}
	case domain.QuestionView:
		r.question = p
		fmt.Fprintf(r.out, "\nQuestion %d/%d   Score: %d\n%s\n", p.Number, p.Total, p.Score, p.Prompt)
		for i, option := range p.Options {
			fmt.Fprintf(r.out, "  %s) %s\n", optionKey(i), option)
		}
	case domain.TimerPayload:
		if p.Warning && (p.Remaining == 10 || p.Remaining <= 5) && p.Remaining > 0 {
			fmt.Fprintf(r.out, "  %ds left\n", p.Remaining)
		}
	case domain.Outcome:
		r.renderOutcome(p)
	case domain.ResultsPayload:
		s := p.Stats
		fmt.Fprintf(r.out, "Score: %d\nCorrect: %d/%d\nAccuracy: %d%%\nTime: %ds\n%s\n",
			s.TotalScore, s.CorrectAnswers, s.TotalQuestions, s.Accuracy, s.TimeTaken, p.Message)
	case []domain.RankedEntry:
		if len(p) == 0 {
			fmt.Fprintln(r.out, "  No scores yet. Be the first to play!")
		}
		for _, row := range p {
			en := row.Entry
			fmt.Fprintf(r.out, "  %-4s %-16s %4d pts  %s  %s  %d%%  %s\n",
				row.Rank, en.PlayerName, en.Score, en.Category, en.Difficulty, en.Accuracy, en.Date)
		}
	case domain.Settings:
		sound := "off"
		if p.SoundEnabled {
			sound = "on"
		}
		fmt.Fprintf(r.out, "Sound: %s   Timer: %ds   Questions per quiz: %d\n", sound, p.TimerDuration, p.QuestionsPerQuiz)
	case domain.SharePayload:
		fmt.Fprintf(r.out, "Share: %s\n", p.Text)
	case domain.Notification:
		fmt.Fprintf(r.out, "[%s] %s\n", p.Level, p.Message)
	case string:
		if e.Type == domain.EventSound && p != domain.SoundSelect {
			fmt.Fprint(r.out, "\a")
		}
	}
}

func (r *Renderer) renderOutcome(o domain.Outcome) {
	if o.CorrectIndex >= 0 && o.CorrectIndex < len(r.question.Options) && !o.IsCorrect {
		fmt.Fprintf(r.out, "Correct answer: %s) %s\n", optionKey(o.CorrectIndex), r.question.Options[o.CorrectIndex])
	}
	if o.Explanation != "" {
		fmt.Fprintln(r.out, o.Explanation)
	}
	switch {
	case o.QuizCompleted && !o.CanAdvance:
	case o.QuizCompleted:
		fmt.Fprintln(r.out, "Press n to see your results.")
	default:
		fmt.Fprintln(r.out, "Press n for the next question.")
	}
}

func optionKey(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('a' + i))
	}
	return "?"
}
