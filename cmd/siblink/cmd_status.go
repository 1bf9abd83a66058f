package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/logging"
	"github.com/fbkclanna/siblink/internal/status"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report missing projects, unlinked dependencies and git changes",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	cmd.Flags().Bool("no-untracked", false, "Ignore untracked files")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if noUntracked, _ := cmd.Flags().GetBool("no-untracked"); noUntracked {
		s.cfg.Status.Untracked = false
	}
	if err := s.ws.Build(cmd.Context(), s.rt); err != nil {
		return err
	}

	checker := &status.Checker{
		Git:       s.rt.Git,
		Log:       logging.Component(s.rt.Log, "status"),
		Untracked: s.cfg.Status.Untracked,
		Color:     s.console.Color(),
	}
	return graph.Parallel(cmd.Context(), s.ws.Registry.Projects(), s.cfg.Jobs, func(_ context.Context, p *graph.Project) error {
		status.Print(s.console.Section(p.Name), checker.Check(p))
		return nil
	})
}
