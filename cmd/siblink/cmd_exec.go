package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/runner"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec [--fail] [--] <command...>",
		Aliases: []string{"e"},
		Short:   "Run a command in each checked out project",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runExec,
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().Bool("fail", false, "Stop if the command exits with a non-zero status")
	return cmd
}

func runExec(cmd *cobra.Command, args []string) error {
	fail, _ := cmd.Flags().GetBool("fail")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if err := s.ws.Build(cmd.Context(), s.rt); err != nil {
		return err
	}

	var local []*graph.Project
	for _, p := range s.ws.Registry.Projects() {
		if p.IsLocal() {
			local = append(local, p)
		}
	}

	return graph.Parallel(cmd.Context(), local, s.cfg.Jobs, func(_ context.Context, p *graph.Project) error {
		section := s.console.Section(p.Name)
		err := s.runner.Stream(p.Path, section.Stdout(), section.Stderr(), args[0], args[1:]...)
		if err != nil && !fail && runner.IsExitError(err) {
			s.rt.Log.Debug().Err(err).Str("project", p.Name).Msg("command failed, continuing")
			return nil
		}
		return err
	})
}
