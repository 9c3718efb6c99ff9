// Package cli defines the tcnotify command tree.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/config"
	"github.com/kyleking/tcnotify/internal/history"
	"github.com/kyleking/tcnotify/internal/logger"
	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/watcher"
)

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(version).ExecuteContext(ctx)
}

type globalFlags struct {
	configPath  string
	historyPath string
	verbose     bool
	pipelines   []string
	users       []string
}

func newRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "tcnotify",
		Short: "Watch TeamCity pipelines and get notified when builds start and finish",
		Long: "tcnotify polls TeamCity build configurations on a fixed interval and reports " +
			"builds that started, are still running, or finished since the last check. " +
			"Without a subcommand it opens the interactive view.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "configuration file (.yaml or .toml)")
	pf.StringVar(&flags.historyPath, "history", history.CachePath(), "file recording finished builds")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output and HTTP traffic")
	pf.StringSliceVarP(&flags.pipelines, "pipeline", "p", nil, "build type id to watch, overrides watch.pipelines (repeatable)")
	pf.StringSliceVarP(&flags.users, "user", "u", nil, "only report builds of this user, overrides watch.users (repeatable)")

	watchCmd := newWatchCmd(flags)
	rootCmd.RunE = watchCmd.RunE

	rootCmd.AddCommand(
		watchCmd,
		newPollCmd(flags),
		newConfigCmd(flags),
		newHistoryCmd(flags),
	)

	return rootCmd
}

// loadConfig reads the configuration file and applies flag overrides.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(f.configPath)
	if err != nil {
		return nil, err
	}

	cfg.Override(f.pipelines, f.users)

	return cfg, nil
}

// loadHistory opens the history file. An unreadable file is reported and
// replaced by an empty store so watching still works.
func (f *globalFlags) loadHistory(log logger.Logger) *history.Store {
	store, err := history.LoadFrom(f.historyPath)
	if err != nil {
		log.Error("ignoring history file %s: %v", f.historyPath, err)
		return history.NewStore()
	}
	return store
}

// newClient validates the server settings of cfg and builds a TeamCity client.
func newClient(cfg *config.Config, httpLog io.Writer) (*teamcity.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return teamcity.NewClient(teamcity.Options{
		URL:                cfg.Server.URL,
		Token:              cfg.Server.Token,
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
		Timeout:            cfg.TimeoutOrDefault(),
		Log:                httpLog,
	})
}

// newWatcher builds a TeamCity client and a watcher for cfg.
func newWatcher(cfg *config.Config, log logger.Logger, httpLog io.Writer) (*watcher.Watcher, error) {
	client, err := newClient(cfg, httpLog)
	if err != nil {
		return nil, err
	}

	w := watcher.New(client,
		watcher.NewConfig(cfg.Watch.Pipelines, cfg.Watch.Users),
		watcher.WithInterval(cfg.IntervalOrDefault()),
		watcher.WithLogger(log),
	)

	return w, nil
}
