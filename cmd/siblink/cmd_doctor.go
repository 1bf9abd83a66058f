package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/manifest"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/repourl"
	"github.com/fbkclanna/siblink/internal/workspace"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment and show the seed projects",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ok := true

	s, err := newSession(cmd)
	if err != nil && !errors.Is(err, workspace.ErrNoProjects) {
		return err
	}

	// Check git.
	_, _ = fmt.Fprint(out, "Checking git... ")
	if !git.IsGitInstalled() {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		_, _ = fmt.Fprintln(out, "  git is required. Install it from https://git-scm.com/")
		ok = false
	} else if s != nil {
		printVersion(out, s.rt.Git.Version)
	} else {
		_, _ = fmt.Fprintln(out, "found")
	}

	// Check npm.
	_, _ = fmt.Fprint(out, "Checking npm... ")
	if !npm.IsNpmInstalled() {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		_, _ = fmt.Fprintln(out, "  npm is required for link. Install Node.js from https://nodejs.org/")
		ok = false
	} else if s != nil {
		printVersion(out, s.rt.NPM.Version)
	} else {
		_, _ = fmt.Fprintln(out, "found")
	}

	if s == nil {
		_, _ = fmt.Fprintln(out, "No package.json found (skipping project checks)")
	} else {
		if err := printSeeds(out, s); err != nil {
			return err
		}
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return errors.New("doctor checks failed")
}

func printVersion(out io.Writer, version func() (string, error)) {
	v, err := version()
	if err != nil {
		_, _ = fmt.Fprintf(out, "ERROR (%v)\n", err)
		return
	}
	_, _ = fmt.Fprintln(out, v)
}

// printSeeds lists every seed with its remote and the patterns it
// contributes, then the merged matcher set.
func printSeeds(out io.Writer, s *session) error {
	_, _ = fmt.Fprintf(out, "\nSeeds (siblings are checked out in %s):\n", s.ws.Dir)
	t := s.console.Table("NAME", "REMOTE", "PATTERNS")
	for _, dir := range s.ws.Seeds {
		pkg, err := manifest.Load(dir)
		if err != nil {
			return err
		}
		remote, err := s.rt.Git.RemoteURL(dir)
		if err != nil {
			t.Row(pkg.Name, "-", "-")
			continue
		}
		patterns, err := repourl.MatchersFromRemote(remote)
		if err != nil {
			t.Row(pkg.Name, remote, "(unparseable)")
			continue
		}
		t.Row(pkg.Name, remote, strings.Join(patterns, ", "))
	}
	if err := t.Flush(); err != nil {
		return err
	}

	m := s.ws.LoadMatchers(s.rt.Git, s.rt.Log)
	if m.Len() == 0 {
		_, _ = fmt.Fprintln(out, "\nNo matchers: only --link overrides can pull in siblings.")
		return nil
	}
	_, _ = fmt.Fprintf(out, "\nMatchers: %s\n", strings.Join(m.Patterns(), ", "))
	return nil
}
