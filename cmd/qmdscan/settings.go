package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/config"
	"qmdscan/internal/driver"
)

const appName = "qmdscan"

// settings is the merged view of qmdscan.toml and command-line flags.
type settings struct {
	cfg     config.Config
	opts    driver.Options
	color   bool
	quiet   bool
	timings bool
}

func applyColorFlag(cmd *cobra.Command) {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch strings.ToLower(mode) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// loadSettings resolves the configuration for target and lets explicitly
// set flags override it.
func loadSettings(cmd *cobra.Command, target string) (*settings, error) {
	root := cmd.Root().PersistentFlags()

	var (
		cfg config.Config
		err error
	)
	if path, _ := root.GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(target)
	}
	if err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, color: useColor(cmd, os.Stderr)}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	if root.Changed("max-diagnostics") {
		if cfg.Scan.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if cfg.Scan.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("cache"); f != nil && f.Changed {
		if cfg.Cache.Enabled, err = cmd.Flags().GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}

	s.opts = driver.Options{
		MaxDiagnostics: cfg.Scan.MaxDiagnostics,
		Jobs:           cfg.Scan.Jobs,
		Extensions:     cfg.Scan.Extensions,
	}
	if cfg.Cache.Enabled {
		cache, err := openCache(cfg)
		if err != nil {
			return nil, err
		}
		s.opts.Cache = cache
	}
	s.cfg = cfg
	return s, nil
}

func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return checkpoint.DefaultDir(appName)
}

func openCache(cfg config.Config) (*checkpoint.Cache, error) {
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}
	return checkpoint.Open(dir)
}
