package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[scan]\nextensions = [\"qmd\", \".RMD\"]\njobs = 2\n\n[cache]\nenabled = false\ndir = \"cache\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if len(cfg.Scan.Extensions) != 2 || cfg.Scan.Extensions[0] != ".qmd" || cfg.Scan.Extensions[1] != ".rmd" {
		t.Fatalf("extensions = %v", cfg.Scan.Extensions)
	}
	if cfg.Scan.Jobs != 2 || cfg.Scan.MaxDiagnostics != 100 {
		t.Fatalf("scan = %+v", cfg.Scan)
	}
	if cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(root, "cache") {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" && filepath.Base(cfg.Path) != FileName {
		t.Fatalf("unexpected path %q", cfg.Path)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":   "[scan\n",
		"unknown":  "[scan]\ncolour = true\n",
		"negative": "[scan]\njobs = -1\n",
		"empty":    "[scan]\nextensions = [\"\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "testdata", FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.MaxDiagnostics != 50 || cfg.Cache.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Scan.Extensions) != 1 || cfg.Scan.Extensions[0] != ".qmd" {
		t.Fatalf("extensions = %v", cfg.Scan.Extensions)
	}
}
