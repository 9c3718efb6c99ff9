package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(flags),
		newConfigInitCmd(flags),
		newConfigPathCmd(flags),
		newConfigProjectsCmd(flags),
		newConfigUsersCmd(flags),
	)

	return cmd
}

func newConfigShowCmd(flags *globalFlags) *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the token masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			redacted := cfg.Redacted()
			data, err := config.Marshal(&redacted, asTOML)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML instead of YAML")

	return cmd
}

func newConfigInitCmd(flags *globalFlags) *cobra.Command {
	var (
		url      string
		token    string
		insecure bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: "init writes the server settings and the --pipeline/--user selections to the " +
			"configuration file. The format follows the file extension (.yaml or .toml).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := flags.configPath

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := &config.Config{
				Server: config.ServerConfig{
					URL:                strings.TrimSpace(url),
					Token:              strings.TrimSpace(token),
					InsecureSkipVerify: insecure,
					Timeout:            config.Duration(config.DefaultTimeout),
				},
				Watch: config.WatchConfig{
					Pipelines: flags.pipelines,
					Users:     flags.users,
					Interval:  config.Duration(config.DefaultInterval),
				},
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Clean(path))
			return err
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "TeamCity server URL")
	cmd.Flags().StringVar(&token, "token", "", "TeamCity access token")
	cmd.Flags().BoolVar(&insecure, "insecure-skip-verify", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newConfigPathCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), flags.configPath)
			return err
		},
	}
}
