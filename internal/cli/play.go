package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quizdom/internal/app"
	"quizdom/internal/transport/terminal"
)

// NewPlayCmd plays quizzes interactively in the terminal.
func NewPlayCmd(opts *rootOptions) *cobra.Command {
	var category, difficulty, player string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := buildDeps(ctx, opts)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			renderer := terminal.NewRenderer(out)
			var console *terminal.Console
			players := app.NewPlayerStore(d.kv, func() string { return console.Prompt("Enter your name for the leaderboard: ") })
			session := d.newSession(renderer, players)
			defer session.Close()
			console = terminal.NewConsole(session, os.Stdin, out)

			if player != "" {
				if err := players.SetName(ctx, player); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Welcome, %s!\n", players.Name(ctx))

			session.Init(ctx)
			if category != "" {
				if err := console.Execute(ctx, "category "+strings.ToLower(category)); err != nil {
					return err
				}
			}
			if difficulty != "" {
				if err := console.Execute(ctx, "difficulty "+difficulty); err != nil {
					return err
				}
			}
			if category != "" && difficulty != "" {
				if err := session.Start(ctx); err != nil {
					return err
				}
			}
			return console.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to play, e.g. science")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().StringVar(&player, "player", "", "name recorded on the leaderboard")
	return cmd
}
