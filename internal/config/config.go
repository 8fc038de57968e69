// Package config loads qmdscan.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the target directory upward.
const FileName = "qmdscan.toml"

// Config is the parsed configuration with defaults applied.
type Config struct {
	Path  string `toml:"-"` // file the values came from; empty for defaults
	Scan  Scan   `toml:"scan"`
	Cache Cache  `toml:"cache"`
}

// Scan holds the [scan] section.
type Scan struct {
	Extensions     []string `toml:"extensions"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
}

// Cache holds the [cache] section.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Scan: Scan{
			Extensions:     []string{".qmd"},
			MaxDiagnostics: 100,
		},
		Cache: Cache{Enabled: true},
	}
}

// Find walks up from startDir looking for qmdscan.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for target, which may be a
// file or a directory. Without a configuration file it returns Default().
func Discover(target string) (Config, error) {
	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	path, ok, err := Find(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load parses path. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("scan", "max_diagnostics") && cfg.Scan.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [scan].max_diagnostics must be >= 0", path)
	}
	if meta.IsDefined("scan", "jobs") && cfg.Scan.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [scan].jobs must be >= 0", path)
	}
	for i, ext := range cfg.Scan.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return Config{}, fmt.Errorf("%s: [scan].extensions has an empty entry", path)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Scan.Extensions[i] = strings.ToLower(ext)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	cfg.Path = path
	return cfg, nil
}
