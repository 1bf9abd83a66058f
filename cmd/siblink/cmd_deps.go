package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/graph"
	"github.com/fbkclanna/siblink/internal/manifest"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [-u] <dependency> [version]",
		Short: "Show or update the version of a dependency in every project",
		Long: `Show the declared version of a dependency in every project that declares it.

With -u the declared version is rewritten in both dependencies and
devDependencies, leaving the rest of package.json untouched.`,
		Args: func(cmd *cobra.Command, args []string) error {
			update, _ := cmd.Flags().GetBool("update")
			if update {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: runDeps,
	}
	cmd.Flags().BoolP("update", "u", false, "Set the dependency to <version>")
	return cmd
}

func runDeps(cmd *cobra.Command, args []string) error {
	update, _ := cmd.Flags().GetBool("update")
	dep := args[0]

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if err := s.ws.Build(cmd.Context(), s.rt); err != nil {
		return err
	}

	return graph.Serial(cmd.Context(), s.ws.Registry.Projects(), func(_ context.Context, p *graph.Project) error {
		section := s.console.Section(p.Name)
		if p.IsMissing() {
			section.Printf("   project is missing")
			return nil
		}
		current, ok := p.Dependencies[dep]
		if !ok {
			return nil
		}
		if !update {
			section.Printf("%s: %s", dep, current)
			return nil
		}

		version := args[1]
		section.Printf("Updating %s from: %s to: %s", dep, current, version)
		raw, changed, err := manifest.SetDependencyVersion(p.Manifest.Raw, dep, version)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if !changed {
			return nil
		}
		if s.cfg.Noop {
			section.Printf("(skipped) writing %s", manifest.Path(p.Path))
			return nil
		}
		if err := manifest.Save(p.Path, raw); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		p.Manifest.Raw = raw
		p.Dependencies[dep] = version
		return nil
	})
}
