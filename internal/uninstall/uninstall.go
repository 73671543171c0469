// Package uninstall removes packages across the three Linux package
// surfaces the tool knows: apt, snap and flatpak. Detection picks the
// manager; the plan is executed through the guard engine.
package uninstall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// Manager identifies which package surface owns a package.
type Manager string

const (
	ManagerNone    Manager = ""
	ManagerApt     Manager = "apt"
	ManagerSnap    Manager = "snap"
	ManagerFlatpak Manager = "flatpak"
)

// Detect finds the manager a package is installed under, apt first.
func Detect(pkg string) Manager {
	if isAptPackage(pkg) {
		return ManagerApt
	}
	if isSnapPackage(pkg) {
		return ManagerSnap
	}
	if isFlatpakPackage(pkg) {
		return ManagerFlatpak
	}
	return ManagerNone
}

func isAptPackage(pkg string) bool {
	if !execx.Which("dpkg") {
		return false
	}
	lines, err := execx.CaptureLines("dpkg", "-l", pkg)
	if err != nil {
		return false
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "ii") && strings.Contains(line, pkg) {
			return true
		}
	}
	return false
}

func isSnapPackage(pkg string) bool {
	if !execx.Which("snap") {
		return false
	}
	lines, err := execx.CaptureLines("snap", "list")
	if err != nil {
		return false
	}
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == pkg {
			return true
		}
	}
	return false
}

func isFlatpakPackage(pkg string) bool {
	if !execx.Which("flatpak") {
		return false
	}
	out, err := execx.Capture("flatpak", "list", "--app", "--columns=application")
	if err != nil {
		return false
	}
	return strings.Contains(out, pkg)
}

// ConfigPaths returns the conventional per-user data locations for a
// package, existing ones only.
func ConfigPaths(pkg string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range []string{
		filepath.Join(home, ".config", pkg),
		filepath.Join(home, ".local", "share", pkg),
		filepath.Join(home, ".cache", pkg),
	} {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// BuildPlan assembles the removal actions for a package. purge also
// drops configs and per-user data.
func BuildPlan(pkg string, purge bool) ([]guard.Candidate, Manager, error) {
	mgr := Detect(pkg)
	var cands []guard.Candidate

	switch mgr {
	case ManagerApt:
		if purge {
			cands = append(cands, guard.Candidate{
				Reason: "remove " + pkg + " with configs (apt remove --purge)",
				Remove: func() error { return execx.RunRoot("apt-get", "remove", "--purge", "-y", pkg) },
			})
			for _, p := range ConfigPaths(pkg) {
				cands = append(cands, guard.Candidate{
					Path:   p,
					Reason: "remove user data " + p,
					Size:   dirSize(p),
				})
			}
		} else {
			cands = append(cands, guard.Candidate{
				Reason: "remove " + pkg + " (apt remove)",
				Remove: func() error { return execx.RunRoot("apt-get", "remove", "-y", pkg) },
			})
		}
		cands = append(cands, guard.Candidate{
			Reason: "clean up unused dependencies (apt autoremove)",
			Remove: func() error { return execx.RunRoot("apt-get", "autoremove", "-y") },
		})

	case ManagerSnap:
		cands = append(cands, guard.Candidate{
			Reason: "remove snap " + pkg,
			Remove: func() error { return execx.RunRoot("snap", "remove", pkg) },
		})
		if purge {
			if home, err := os.UserHomeDir(); err == nil {
				data := filepath.Join(home, "snap", pkg)
				if _, err := os.Stat(data); err == nil {
					cands = append(cands, guard.Candidate{
						Path:   data,
						Reason: "remove snap data " + data,
						Size:   dirSize(data),
					})
				}
			}
		}

	case ManagerFlatpak:
		cands = append(cands, guard.Candidate{
			Reason: "remove flatpak " + pkg,
			Remove: func() error { return execx.Run("flatpak", "uninstall", "-y", pkg) },
		})
		if purge {
			if home, err := os.UserHomeDir(); err == nil {
				data := filepath.Join(home, ".var", "app", pkg)
				if _, err := os.Stat(data); err == nil {
					cands = append(cands, guard.Candidate{
						Path:   data,
						Reason: "remove flatpak data " + data,
						Size:   dirSize(data),
					})
				}
			}
		}

	default:
		return nil, ManagerNone, fmt.Errorf("package %q not found via apt, snap, or flatpak", pkg)
	}

	return cands, mgr, nil
}

// Orphans lists packages installed as automatic dependencies.
func Orphans() ([]string, error) {
	if !execx.Which("apt-mark") {
		return nil, fmt.Errorf("apt-mark not available")
	}
	return execx.CaptureLines("apt-mark", "showauto")
}

// AutoremoveCandidate is the standalone `--autoremove` action.
func AutoremoveCandidate() guard.Candidate {
	return guard.Candidate{
		Reason: "remove unused dependencies (apt autoremove)",
		Remove: func() error { return execx.RunRoot("apt-get", "autoremove", "-y") },
	}
}

// FixBrokenCandidate repairs a wedged dpkg state.
func FixBrokenCandidate() guard.Candidate {
	return guard.Candidate{
		Reason: "fix broken packages (apt --fix-broken install)",
		Remove: func() error { return execx.RunRoot("apt-get", "--fix-broken", "install", "-y") },
	}
}

func dirSize(path string) int64 {
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
