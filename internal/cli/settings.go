package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"quizdom/internal/app"
	"quizdom/internal/domain"
	"quizdom/internal/transport/terminal"
)

// NewSettingsCmd shows or updates the persisted settings.
func NewSettingsCmd(opts *rootOptions) *cobra.Command {
	var sound bool
	var timer, questions string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change quiz settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := buildDeps(ctx, opts)
			if err != nil {
				return err
			}
			defer d.Close()

			store := app.NewSettingsStore(d.kv)
			current := store.Load(ctx)

			flags := cmd.Flags()
			if flags.Changed("sound") || flags.Changed("timer") || flags.Changed("questions") {
				form := app.SettingsForm{
					SoundEnabled:     current.SoundEnabled,
					TimerDuration:    strconv.Itoa(current.TimerDuration),
					QuestionsPerQuiz: strconv.Itoa(current.QuestionsPerQuiz),
				}
				if flags.Changed("sound") {
					form.SoundEnabled = sound
				}
				if flags.Changed("timer") {
					form.TimerDuration = timer
				}
				if flags.Changed("questions") {
					form.QuestionsPerQuiz = questions
				}
				if current, err = store.Save(ctx, form); err != nil {
					return err
				}
			}

			terminal.NewRenderer(cmd.OutOrStdout()).Render(domain.Event{Type: domain.EventSettings, Payload: current})
			return nil
		},
	}
	cmd.Flags().BoolVar(&sound, "sound", true, "enable sound cues")
	cmd.Flags().StringVar(&timer, "timer", "", "seconds per question")
	cmd.Flags().StringVar(&questions, "questions", "", "questions per quiz")
	return cmd
}
