// Package clean collects deletable items across the system: package
// caches, rotated logs, dev caches, old kernels, snap/flatpak leftovers.
// Collectors only gather; execution goes through the guard engine.
package clean

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// DirSize returns the total size of a subtree, best effort. Unreadable
// parts count as zero.
func DirSize(path string) int64 {
	var total int64
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}

// CacheTargets turns the configured path-based targets of a category
// into candidates. Empty or missing directories are skipped.
func CacheTargets(category string) []guard.Candidate {
	var cands []guard.Candidate
	for _, t := range config.GetTargetsByCategory(category) {
		if t.RequiresRoot && !execx.IsRoot() {
			continue
		}
		for _, p := range t.Paths {
			info, err := os.Stat(p)
			if err != nil || !info.IsDir() {
				continue
			}
			size := DirSize(p)
			if size == 0 {
				continue
			}
			cands = append(cands, guard.Candidate{
				Path:   p,
				Reason: t.Description,
				Size:   size,
			})
		}
	}
	return cands
}

// AptCandidates cleans the package archive cache through apt itself.
func AptCandidates() []guard.Candidate {
	if !execx.Which("apt-get") {
		return nil
	}
	size := DirSize("/var/cache/apt/archives")
	return []guard.Candidate{{
		Path:   "/var/cache/apt/archives",
		Reason: "apt package cache (apt-get clean)",
		Size:   size,
		Remove: func() error { return execx.RunRoot("apt-get", "clean") },
	}}
}

// JournalCandidates vacuums the systemd journal by time and size.
func JournalCandidates(timeSpec, sizeSpec string) []guard.Candidate {
	if !execx.Which("journalctl") {
		return nil
	}
	var cands []guard.Candidate
	if timeSpec != "" {
		spec := timeSpec
		cands = append(cands, guard.Candidate{
			Reason: "vacuum journal entries older than " + spec,
			Remove: func() error { return execx.RunRoot("journalctl", "--vacuum-time="+spec) },
		})
	}
	if sizeSpec != "" {
		spec := sizeSpec
		cands = append(cands, guard.Candidate{
			Reason: "cap journal size at " + spec,
			Remove: func() error { return execx.RunRoot("journalctl", "--vacuum-size="+spec) },
		})
	}
	return cands
}

// TmpfilesCandidates applies the systemd tmpfiles aging rules.
func TmpfilesCandidates() []guard.Candidate {
	if !execx.Which("systemd-tmpfiles") {
		return nil
	}
	return []guard.Candidate{{
		Reason: "apply tmpfiles aging rules (systemd-tmpfiles --clean)",
		Remove: func() error { return execx.RunRoot("systemd-tmpfiles", "--clean") },
	}}
}

var rotatedNumGz = regexp.MustCompile(`\.\d+\.gz$`)

// rotatedSuffixes mark log files already rotated out of service.
var rotatedSuffixes = []string{
	".gz", ".old", ".1", ".2", ".3", ".4", ".5", ".6", ".7", ".8", ".9",
}

func isRotatedLogName(name string) bool {
	for _, s := range rotatedSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return rotatedNumGz.MatchString(name)
}

// RotatedLogCandidates finds rotated logs under dir older than days,
// largest first ordering is left to the caller.
func RotatedLogCandidates(dir string, days int) []guard.Candidate {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	var cands []guard.Candidate
	filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.Type().IsRegular() || !isRotatedLogName(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		cands = append(cands, guard.Candidate{
			Path:   p,
			Reason: "rotated log " + d.Name(),
			Size:   info.Size(),
		})
		return nil
	})
	return cands
}

// SnapCandidates removes disabled snap revisions kept around after
// upgrades.
func SnapCandidates() []guard.Candidate {
	if !execx.Which("snap") {
		return nil
	}
	lines, err := execx.CaptureLines("snap", "list", "--all")
	if err != nil {
		return nil
	}
	var cands []guard.Candidate
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 6 || !strings.Contains(fields[5], "disabled") {
			continue
		}
		name, rev := fields[0], fields[2]
		cands = append(cands, guard.Candidate{
			Reason: "remove disabled snap " + name + " revision " + rev,
			Remove: func() error {
				return execx.RunRoot("snap", "remove", name, "--revision", rev)
			},
		})
	}
	return cands
}

// FlatpakCandidates removes unused flatpak runtimes.
func FlatpakCandidates() []guard.Candidate {
	if !execx.Which("flatpak") {
		return nil
	}
	return []guard.Candidate{{
		Reason: "remove unused flatpak runtimes (flatpak uninstall --unused)",
		Remove: func() error { return execx.Run("flatpak", "uninstall", "--unused", "-y") },
	}}
}
