package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/history"
	"github.com/kyleking/tcnotify/internal/logger"
	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/watcher"
)

func newPollCmd(flags *globalFlags) *cobra.Command {
	var (
		once        bool
		showRunning bool
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Watch builds without the interactive view, printing one line per notification",
		Long: "poll runs the same checks as the interactive view and logs every notification. " +
			"It exits with an error when a check fails, or after the first check with --once.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			log := logger.NewWriterLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.verbose)

			var httpLog = cmd.ErrOrStderr()
			if !flags.verbose {
				httpLog = nil
			}

			w, err := newWatcher(cfg, log, httpLog)
			if err != nil {
				return err
			}

			store := flags.loadHistory(log)
			unsubscribe := recordFinished(w.Events(), store)
			defer unsubscribe()

			err = poll(cmd.Context(), w, log, once, showRunning)

			if saveErr := store.SaveTo(flags.historyPath); saveErr != nil {
				log.Error("saving history: %v", saveErr)
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single check and exit")
	cmd.Flags().BoolVar(&showRunning, "show-running", false, "also log still-running builds on every check")

	return cmd
}

// pollWatcher is the part of *watcher.Watcher the headless mode drives.
type pollWatcher interface {
	Start(ctx context.Context)
	Stop()
	CheckBuilds(ctx context.Context) error
	Events() *watcher.EventBus
}

func poll(ctx context.Context, w pollWatcher, log logger.Logger, once, showRunning bool) error {
	defer w.Stop()

	unsubscribe := logNotifications(w.Events(), log, showRunning)
	defer unsubscribe()

	if once {
		return w.CheckBuilds(ctx)
	}

	failed := make(chan error, 1)
	unsubscribeErr := w.Events().OnCycleError(func(err error) {
		select {
		case failed <- err:
		default:
		}
	})
	defer unsubscribeErr()

	w.Start(ctx)

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return err
	}
}

// recordFinished adds every finished build to store.
func recordFinished(bus *watcher.EventBus, store *history.Store) func() {
	return bus.OnBuildCheck(func(result watcher.Result) {
		now := time.Now()
		for _, b := range result.Run {
			store.Record(b, now)
		}
	})
}

// logNotifications writes every notification the bus produces to log.
func logNotifications(bus *watcher.EventBus, log logger.Logger, showRunning bool) func() {
	unsubState := bus.OnStateChange(func(change watcher.StateChange) {
		log.Debug("state %s -> %s", change.From, change.To)
		if n, ok := notify.FromStateChange(change, time.Now()); ok {
			log.Info("%s", n)
		}
	})

	unsubCheck := bus.OnBuildCheck(func(result watcher.Result) {
		for _, n := range notify.FromResult(result, showRunning, time.Now()) {
			if n.Kind == notify.KindFailure {
				log.Error("%s", n)
				continue
			}
			log.Info("%s", n)
		}
	})

	unsubErr := bus.OnCycleError(func(err error) {
		log.Error("%s", notify.FromError(err, time.Now()))
	})

	return func() {
		unsubState()
		unsubCheck()
		unsubErr()
	}
}
