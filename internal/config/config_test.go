package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/4ndymcfly/linuxmole/internal/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, warns := config.Load()
	if len(warns) != 0 {
		t.Errorf("missing config should not warn: %v", warns)
	}
	def := config.Default()
	if cfg.Clean.JournalTime != def.Clean.JournalTime ||
		cfg.Clean.KernelsKeep != def.Clean.KernelsKeep ||
		cfg.Paths.AnalyzeDefault != def.Paths.AnalyzeDefault {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadCorruptFileWarnsAndFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, "linuxmole")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warns := config.Load()
	if len(warns) == 0 {
		t.Fatal("corrupt config must warn")
	}
	if cfg.Clean.JournalSize != config.Default().Clean.JournalSize {
		t.Errorf("corrupt config did not fall back to defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := config.Default()
	cfg.Clean.JournalTime = "14d"
	cfg.Clean.KernelsKeep = 3
	cfg.Paths.AnalyzeDefault = "/srv"
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, warns := config.Load()
	if len(warns) != 0 {
		t.Fatalf("Load after Save warned: %v", warns)
	}
	if got.Clean.JournalTime != "14d" || got.Clean.KernelsKeep != 3 || got.Paths.AnalyzeDefault != "/srv" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoadPurgePathsFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	roots := config.LoadPurgePaths()
	if len(roots) != 4 {
		t.Fatalf("fallback roots = %v", roots)
	}
	for _, r := range roots {
		if r == "" || r[0] == '~' {
			t.Errorf("root not expanded: %q", r)
		}
	}
}

func TestEnsureFilesSeedsOnce(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := config.EnsureFiles(); err != nil {
		t.Fatalf("EnsureFiles: %v", err)
	}
	path, err := config.WhitelistPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("/my/pattern\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A second run must not clobber existing files.
	if err := config.EnsureFiles(); err != nil {
		t.Fatalf("EnsureFiles again: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/my/pattern\n" {
		t.Errorf("whitelist clobbered: %q", data)
	}
}
