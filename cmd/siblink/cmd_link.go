package main

import (
	"github.com/spf13/cobra"
)

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Clone missing siblings and run npm link and npm install as required",
		Args:  cobra.NoArgs,
		RunE:  runLink,
	}
}

func runLink(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.ws.Link(cmd.Context(), s.rt)
}
