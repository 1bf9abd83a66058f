package main

import (
	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/export"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the project graph",
		Args:  cobra.NoArgs,
		RunE:  runGraph,
	}
	cmd.Flags().StringP("format", "f", string(export.JSON), "Output format: json, yaml, dot or table")
	return cmd
}

func runGraph(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if err := s.ws.Build(cmd.Context(), s.rt); err != nil {
		return err
	}
	return export.Write(cmd.OutOrStdout(), s.ws.Registry, format, s.console)
}
