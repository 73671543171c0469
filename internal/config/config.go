// Package config resolves the tool's configuration directory and the
// files inside it: config.toml, whitelist.txt and purge_paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors config.toml. Zero values are filled from Default on
// load so partial files stay valid.
type Config struct {
	Clean    CleanConfig    `toml:"clean"`
	Paths    PathsConfig    `toml:"paths"`
	Optimize OptimizeConfig `toml:"optimize"`
}

type CleanConfig struct {
	AutoConfirm        bool   `toml:"auto_confirm"`
	PreserveRecentDays int    `toml:"preserve_recent_days"`
	JournalTime        string `toml:"default_journal_time"`
	JournalSize        string `toml:"default_journal_size"`
	KernelsKeep        int    `toml:"kernels_keep"`
}

type PathsConfig struct {
	PurgePaths     []string `toml:"purge_paths"`
	AnalyzeDefault string   `toml:"analyze_default"`
}

type OptimizeConfig struct {
	AutoDatabase   bool `toml:"auto_database"`
	AutoNetwork    bool `toml:"auto_network"`
	AutoServices   bool `toml:"auto_services"`
	AutoClearCache bool `toml:"auto_clear_cache"`
}

// Default returns the configuration used when config.toml is missing.
func Default() Config {
	return Config{
		Clean: CleanConfig{
			PreserveRecentDays: 7,
			JournalTime:        "3d",
			JournalSize:        "500M",
			KernelsKeep:        2,
		},
		Paths: PathsConfig{
			PurgePaths:     []string{"~/Projects", "~/GitHub", "~/dev", "~/work"},
			AnalyzeDefault: ".",
		},
		Optimize: OptimizeConfig{
			AutoDatabase: true,
			AutoNetwork:  true,
			AutoServices: true,
		},
	}
}

// Load reads config.toml. A missing file yields the defaults; a corrupt
// one yields the defaults plus a warning, never an error.
func Load() (Config, []string) {
	cfg := Default()
	path, err := FilePath()
	if err != nil {
		return cfg, []string{err.Error()}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, []string{fmt.Sprintf("config unreadable, using defaults: %v", err)}
	}
	parsed := Default()
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		return cfg, []string{fmt.Sprintf("config invalid, using defaults: %v", err)}
	}
	return parsed, nil
}

// Save writes config.toml atomically.
func Save(cfg Config) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
