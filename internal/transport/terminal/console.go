package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"quizdom/internal/app"
	"quizdom/internal/domain"
)

// Console reads player commands line by line and drives a session with them.
type Console struct {
	session *app.QuizSession
	in      *bufio.Scanner
	out     io.Writer
}

func NewConsole(session *app.QuizSession, in io.Reader, out io.Writer) *Console {
	return &Console{session: session, in: bufio.NewScanner(in), out: out}
}

// errExit stops the command loop.
var errExit = errors.New("exit")

// Run processes commands until EOF, "exit" or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for c.in.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.Execute(ctx, c.in.Text())
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil && !errors.Is(err, domain.ErrStaleResponse) {
			fmt.Fprintf(c.out, "! %v\n", err)
		}
	}
	return c.in.Err()
}

// Execute runs a single command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	if index, ok := AnswerIndex(cmd); ok && len(args) == 0 && c.session.Snapshot().State == app.StateInProgress {
		return c.session.Answer(ctx, index)
	}

	switch cmd {
	case "n", "next":
		return c.session.Next(ctx)
	case "q", "quit", "end":
		return c.session.End(ctx)
	case "exit":
		if c.session.Snapshot().State == app.StateInProgress {
			if err := c.session.End(ctx); err != nil {
				return err
			}
		}
		return errExit
	case "play", "categories":
		return c.session.ShowScreen(ctx, domain.ScreenCategorySelection)
	case "menu", "m":
		return c.session.ShowScreen(ctx, domain.ScreenMainMenu)
	case "leaderboard", "l":
		return c.session.ShowScreen(ctx, domain.ScreenLeaderboard)
	case "settings":
		return c.session.ShowScreen(ctx, domain.ScreenSettings)
	case "category":
		if len(args) != 1 {
			return &domain.ValidationError{Field: "category", Message: "usage: category <name>"}
		}
		return c.selectCategory(ctx, args[0])
	case "difficulty":
		if len(args) != 1 {
			return &domain.ValidationError{Field: "difficulty", Message: "usage: difficulty easy|medium|hard"}
		}
		return c.session.SelectDifficulty(ctx, domain.Difficulty(args[0]))
	case "start":
		return c.session.Start(ctx)
	case "restart":
		return c.session.Restart(ctx)
	case "share":
		_, err := c.session.Share(ctx)
		return err
	case "set":
		if len(args) != 3 {
			return &domain.ValidationError{Field: "settings", Message: "usage: set <sound on|off> <timer seconds> <questions>"}
		}
		return c.session.SaveSettings(ctx, app.SettingsForm{
			SoundEnabled:     args[0] == "on",
			TimerDuration:    args[1],
			QuestionsPerQuiz: args[2],
		})
	case "name":
		return c.session.SetPlayerName(ctx, strings.Join(strings.Fields(line)[1:], " "))
	case "help", "?":
		fmt.Fprintln(c.out, "play, category <name>, difficulty <level>, start, a-d, next, quit, restart, share, leaderboard, settings, set, name <player>, menu, exit")
		return nil
	}
	return fmt.Errorf("unknown command %q (type help)", cmd)
}

func (c *Console) selectCategory(ctx context.Context, key string) error {
	for _, category := range c.session.Categories(ctx) {
		if category.Key() == key {
			return c.session.SelectCategory(ctx, category)
		}
	}
	return &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", key)}
}

// AnswerIndex maps the keys a-d to answer indexes 0-3.
func AnswerIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < 'a' || key[0] > 'd' {
		return 0, false
	}
	return int(key[0] - 'a'), true
}

// Prompt prints question and returns the next input line, or "" at EOF.
func (c *Console) Prompt(question string) string {
	fmt.Fprint(c.out, question)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}
