package main

import (
	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/ide"
	"github.com/fbkclanna/siblink/internal/logging"
)

func newIntellijCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intellij",
		Short: "Write IntelliJ IDEA module and library files",
		Args:  cobra.NoArgs,
		RunE:  runIntellij,
	}
}

func runIntellij(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if err := s.ws.Build(cmd.Context(), s.rt); err != nil {
		return err
	}

	w := &ide.Writer{
		Root:   s.ws.Root,
		DryRun: s.cfg.Noop,
		Out:    cmd.OutOrStdout(),
		Log:    logging.Component(s.rt.Log, "intellij"),
	}
	return w.Write(s.ws.Registry)
}
