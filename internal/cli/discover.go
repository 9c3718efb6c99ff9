package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kyleking/tcnotify/internal/config"
	"github.com/kyleking/tcnotify/internal/teamcity"
)

func newConfigProjectsCmd(flags *globalFlags) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the server's projects and build configuration ids",
		Long: "projects lists every project with the ids to use in watch.pipelines. " +
			"With --project it lists the build configurations of that project and its " +
			"subprojects with their latest finished build. Watched ids are marked with *.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := flags.discoveryClient(cmd)
			if err != nil {
				return err
			}

			if projectID != "" {
				bts, err := client.BuildTypes(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				return writeBuildTypes(cmd.OutOrStdout(), cfg, bts)
			}

			projects, err := client.Projects(cmd.Context())
			if err != nil {
				return err
			}
			return writeProjects(cmd.OutOrStdout(), cfg, projects)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "list the build configurations of this project id")

	return cmd
}

func newConfigUsersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the server's usernames for watch.users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := flags.discoveryClient(cmd)
			if err != nil {
				return err
			}

			users, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tUSERNAME\tNAME")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", mark(cfg.Watch.Users, strings.ToLower(u.Username)), u.Username, u.Name)
			}

			return tw.Flush()
		},
	}
}

func (f *globalFlags) discoveryClient(cmd *cobra.Command) (*config.Config, *teamcity.Client, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	var httpLog io.Writer
	if f.verbose {
		httpLog = cmd.ErrOrStderr()
	}

	client, err := newClient(cfg, httpLog)
	if err != nil {
		return nil, nil, err
	}

	return cfg, client, nil
}

func writeProjects(w io.Writer, cfg *config.Config, projects []teamcity.Project) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, p := range projects {
		bts := p.BuildTypeList()
		if len(bts) == 0 {
			continue
		}

		fmt.Fprintf(tw, "%s (%s)\n", p.Name, p.ID)
		for _, bt := range bts {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", mark(cfg.Watch.Pipelines, bt.ID), bt.ID, bt.Name)
		}
	}

	return tw.Flush()
}

func writeBuildTypes(w io.Writer, cfg *config.Config, bts []teamcity.BuildType) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tLAST BUILD\tSTATUS")

	for _, bt := range bts {
		last, status := "-", ""
		if b, ok := bt.LastBuild(); ok {
			last = "#" + b.Number
			if b.BranchName != "" {
				last += " on " + b.BranchName
			}
			status = b.Status
			if b.StatusText != "" {
				status += " (" + b.StatusText + ")"
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark(cfg.Watch.Pipelines, bt.ID), bt.ID, bt.Name, last, status)
	}

	return tw.Flush()
}

func mark(watched []string, id string) string {
	if slices.Contains(watched, id) {
		return "*"
	}
	return " "
}
