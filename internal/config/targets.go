package config

import (
	"os"
	"path/filepath"
)

// CleanTarget represents a category of files that can be cleaned.
type CleanTarget struct {
	// Name is the unique identifier for this target.
	Name string

	// Paths is the list of filesystem paths to clean.
	Paths []string

	// Description is a human-readable description.
	Description string

	// RequiresRoot indicates whether elevated privileges are needed.
	RequiresRoot bool

	// Category groups related targets ("user", "system", "dev").
	Category string

	// RiskLevel is one of "low", "medium", "high".
	RiskLevel string
}

func home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "/root"
	}
	return h
}

// GetCleanTargets returns all path-based cleanup targets with paths
// expanded for the current user. Command-driven cleanups (journald,
// tmpfiles, apt) live in the clean package itself.
func GetCleanTargets() []CleanTarget {
	h := home()

	return []CleanTarget{
		{
			Name:         "AptArchives",
			Paths:        []string{"/var/cache/apt/archives"},
			Description:  "Downloaded .deb package archives",
			RequiresRoot: true,
			Category:     "system",
			RiskLevel:    "low",
		},
		{
			Name:         "PipCache",
			Paths:        []string{filepath.Join(h, ".cache", "pip")},
			Description:  "Python pip download cache",
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "NpmCache",
			Paths:        []string{filepath.Join(h, ".npm")},
			Description:  "npm package manager cache",
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name: "CargoCache",
			Paths: []string{
				filepath.Join(h, ".cargo", "registry", "cache"),
				filepath.Join(h, ".cargo", "git"),
			},
			Description: "Rust cargo registry and git caches",
			Category:    "dev",
			RiskLevel:   "low",
		},
		{
			Name:         "GoModCache",
			Paths:        []string{filepath.Join(h, "go", "pkg", "mod", "cache")},
			Description:  "Go module download cache",
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "UserCacheThumbnails",
			Paths:        []string{filepath.Join(h, ".cache", "thumbnails")},
			Description:  "Desktop thumbnail cache (rebuilds automatically)",
			Category:     "user",
			RiskLevel:    "low",
		},
		{
			Name:         "Trash",
			Paths:        []string{filepath.Join(h, ".local", "share", "Trash", "files")},
			Description:  "User trash contents",
			Category:     "user",
			RiskLevel:    "medium",
		},
	}
}

// GetTargetsByCategory returns clean targets filtered by category.
func GetTargetsByCategory(category string) []CleanTarget {
	var result []CleanTarget
	for _, t := range GetCleanTargets() {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result
}
