package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/app"
	"github.com/kyleking/tcnotify/internal/logger"
	"github.com/kyleking/tcnotify/internal/ui"
	"github.com/kyleking/tcnotify/internal/ui/theme"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var showRunning bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the interactive build notification view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			// the TUI owns the terminal, so the watcher logs nowhere
			w, err := newWatcher(cfg, logger.NewSilentLogger(), nil)
			if err != nil {
				return err
			}
			defer w.Stop()

			stderrLog := logger.NewWriterLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr(), flags.verbose)
			store := flags.loadHistory(stderrLog)

			ui.Apply(theme.Detect())

			model := app.New(cmd.Context(), w, cfg.Watch.Pipelines, cfg.Watch.Users,
				app.WithRunningNotifications(showRunning),
				app.WithHistory(store),
			)
			defer model.Close()

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, runErr := p.Run()

			if err := store.SaveTo(flags.historyPath); err != nil {
				stderrLog.Error("saving history: %v", err)
			}

			if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
				return fmt.Errorf("running interface: %w", runErr)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showRunning, "show-running", false, "list still-running builds in the activity feed on every check")

	return cmd
}
