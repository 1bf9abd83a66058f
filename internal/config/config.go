// Package config loads siblink settings from defaults, config files and the
// environment.
//
// Layers, lowest precedence first:
//
//  1. built-in defaults
//  2. $XDG_CONFIG_HOME/siblink/config.yaml (or config.toml)
//  3. .siblink.yaml (or .siblink.toml) in the working directory
//  4. the file given with --config
//  5. SIBLINK_* environment variables (SIBLINK_STATUS_UNTRACKED → status.untracked)
//
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable siblink reads.
const EnvPrefix = "SIBLINK_"

// Config is the merged configuration.
type Config struct {
	Jobs    int          `koanf:"jobs"`
	Verbose bool         `koanf:"verbose"`
	Noop    bool         `koanf:"noop"`
	Link    LinkConfig   `koanf:"link"`
	Status  StatusConfig `koanf:"status"`
}

// LinkConfig controls sibling membership.
type LinkConfig struct {
	// Overrides force a dependency in or out of the sibling family. They are
	// a list rather than a map because package names may contain dots.
	Overrides []Override `koanf:"overrides"`
}

// Override pins the membership of one dependency.
type Override struct {
	Name string `koanf:"name"`
	Link bool   `koanf:"link"`
}

// StatusConfig controls the status command.
type StatusConfig struct {
	Untracked bool `koanf:"untracked"`
}

// Options locates the configuration sources.
type Options struct {
	// GlobalDir holds config.yaml or config.toml. Defaults to
	// $XDG_CONFIG_HOME/siblink.
	GlobalDir string
	// WorkDir holds .siblink.yaml or .siblink.toml. Defaults to ".".
	WorkDir string
	// File is an explicit config file; its format follows the extension.
	File string
}

func defaults() map[string]any {
	return map[string]any{
		"jobs":             1,
		"verbose":          false,
		"noop":             false,
		"status.untracked": true,
	}
}

// Load merges every layer into a Config.
func Load(opts Options) (*Config, error) {
	if opts.GlobalDir == "" {
		opts.GlobalDir = filepath.Join(xdg.ConfigHome, "siblink")
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFirst(k, opts.GlobalDir, "config"); err != nil {
		return nil, err
	}
	if err := loadFirst(k, opts.WorkDir, ".siblink"); err != nil {
		return nil, err
	}
	if opts.File != "" {
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return &cfg, nil
}

// loadFirst loads dir/base.yaml, dir/base.yml or dir/base.toml, whichever
// exists first.
func loadFirst(k *koanf.Koanf, dir, base string) error {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return loadFile(k, path)
		}
	}
	return nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return nil
}

// OverrideMap returns the overrides keyed by dependency name. Later entries
// win.
func (c *Config) OverrideMap() map[string]bool {
	m := make(map[string]bool, len(c.Link.Overrides))
	for _, o := range c.Link.Overrides {
		m[o.Name] = o.Link
	}
	return m
}

// AddOverrides appends name=bool pairs, as given on the command line, in
// name order.
func (c *Config) AddOverrides(pairs map[string]string) error {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := strconv.ParseBool(pairs[name])
		if err != nil {
			return fmt.Errorf("invalid link override %s=%s: must be true or false", name, pairs[name])
		}
		c.Link.Overrides = append(c.Link.Overrides, Override{Name: name, Link: v})
	}
	return nil
}
