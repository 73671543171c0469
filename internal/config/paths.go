package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the tool's configuration directory, honoring
// XDG_CONFIG_HOME. Failure to resolve a home directory is fatal for the
// caller; nothing can be persisted without it.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "linuxmole"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(home, ".config", "linuxmole"), nil
}

// WhitelistPath returns the user whitelist file path.
func WhitelistPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "whitelist.txt"), nil
}

// PurgePathsPath returns the purge project-roots file path.
func PurgePathsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "purge_paths"), nil
}

// FilePath returns the config.toml path.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DetailListPath returns where clean previews are written for later
// inspection.
func DetailListPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "clean-list.txt"), nil
}

// EnsureFiles creates the config directory and seeds the whitelist and
// purge-paths files with commented headers on first run.
func EnsureFiles() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	wl := filepath.Join(dir, "whitelist.txt")
	if _, err := os.Stat(wl); os.IsNotExist(err) {
		seed := "# Add glob patterns to protect paths\n"
		if err := os.WriteFile(wl, []byte(seed), 0o644); err != nil {
			return err
		}
	}
	pp := filepath.Join(dir, "purge_paths")
	if _, err := os.Stat(pp); os.IsNotExist(err) {
		seed := "# One project root per line\n"
		if err := os.WriteFile(pp, []byte(seed), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// LoadPurgePaths returns the configured project roots for `purge`,
// falling back to the conventional ones when the file lists none.
func LoadPurgePaths() []string {
	var roots []string
	if path, err := PurgePathsPath(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			for _, line := range splitLines(string(data)) {
				if line == "" || line[0] == '#' {
					continue
				}
				roots = append(roots, expandHome(line))
			}
		}
	}
	if len(roots) == 0 {
		for _, d := range []string{"~/Projects", "~/GitHub", "~/dev", "~/work"} {
			roots = append(roots, expandHome(d))
		}
	}
	return roots
}
