package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siblink",
		Short: "Clone and npm link sibling packages across local checkouts",
		Long: `siblink works on the package.json in the current directory, or on every
*/package.json below it when there is none. Dependencies hosted by the same
organization as those projects are siblings: they are cloned next to them
and linked with npm link.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("root", ".", "Directory to start from")
	pf.Bool("verbose", false, "Show debugging output")
	pf.Bool("noop", false, "Print commands instead of executing them")
	pf.IntP("jobs", "j", 1, "Run N tasks in parallel")
	pf.StringToString("link", nil, "Force a dependency in or out of the sibling family (name=true|false)")
	pf.String("config", "", "Config file (yaml or toml)")

	cmd.AddCommand(
		newLinkCmd(),
		newExecCmd(),
		newStatusCmd(),
		newDepsCmd(),
		newGraphCmd(),
		newIntellijCmd(),
		newDoctorCmd(),
	)

	return cmd
}
