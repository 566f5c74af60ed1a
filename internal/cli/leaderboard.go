package cli

import (
	"github.com/spf13/cobra"

	"quizdom/internal/app"
	"quizdom/internal/domain"
	"quizdom/internal/transport/terminal"
)

// NewLeaderboardCmd prints the ranked leaderboard.
func NewLeaderboardCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			entries := app.NewLeaderboardStore(d.leaderboard, d.kv).Load(cmd.Context())
			ranked := app.Rank(entries)
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}
			renderer := terminal.NewRenderer(cmd.OutOrStdout())
			renderer.Render(domain.Event{Type: domain.EventScreen, Payload: domain.ScreenPayload{Screen: domain.ScreenLeaderboard}})
			renderer.Render(domain.Event{Type: domain.EventLeaderboard, Payload: ranked})
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "rows to show")
	return cmd
}
