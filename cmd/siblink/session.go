package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fbkclanna/siblink/internal/config"
	"github.com/fbkclanna/siblink/internal/git"
	"github.com/fbkclanna/siblink/internal/logging"
	"github.com/fbkclanna/siblink/internal/npm"
	"github.com/fbkclanna/siblink/internal/runner"
	"github.com/fbkclanna/siblink/internal/ui"
	"github.com/fbkclanna/siblink/internal/workspace"
)

// session is the state shared by every command: merged configuration, the
// seeded workspace and the clients acting on it.
type session struct {
	cfg     *config.Config
	ws      *workspace.Context
	rt      *workspace.Runtime
	runner  *runner.Exec
	console *ui.Console
}

// loadConfig merges the config layers with the flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	root, _ := flags.GetString("root")
	file, _ := flags.GetString("config")

	cfg, err := config.Load(config.Options{WorkDir: root, File: file})
	if err != nil {
		return nil, err
	}
	if flags.Changed("jobs") {
		jobs, _ := flags.GetInt("jobs")
		if jobs < 1 {
			return nil, fmt.Errorf("--jobs must be >= 1 (got %d)", jobs)
		}
		cfg.Jobs = jobs
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("noop") {
		cfg.Noop, _ = flags.GetBool("noop")
	}
	links, _ := flags.GetStringToString("link")
	if err := cfg.AddOverrides(links); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	console := ui.NewConsole(out, errOut, isTerminal(out))
	log := logging.New(errOut, cfg.Verbose)
	r := &runner.Exec{Stdout: out, Stderr: errOut, DryRun: cfg.Noop}

	root, _ := cmd.Flags().GetString("root")
	ws, err := workspace.Load(root)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg: cfg,
		ws:  ws,
		rt: &workspace.Runtime{
			Git:       git.New(r),
			NPM:       npm.New(r),
			Console:   console,
			Log:       log,
			Jobs:      cfg.Jobs,
			DryRun:    cfg.Noop,
			Overrides: cfg.OverrideMap(),
		},
		runner:  r,
		console: console,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
