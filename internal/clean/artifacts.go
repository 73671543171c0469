package clean

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// installerExts are the file types `lm installer` offers to delete.
var installerExts = []string{
	".deb", ".rpm", ".AppImage", ".run", ".tar.gz", ".tgz", ".zip", ".iso",
}

// InstallerCandidates finds leftover installer files in the usual
// download locations, largest first.
func InstallerCandidates() []guard.Candidate {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	var cands []guard.Candidate
	for _, base := range []string{
		filepath.Join(home, "Downloads"),
		filepath.Join(home, "Desktop"),
	} {
		filepath.WalkDir(base, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.Type().IsRegular() || !hasInstallerExt(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			cands = append(cands, guard.Candidate{
				Path:   p,
				Reason: "installer file " + d.Name(),
				Size:   info.Size(),
			})
			return nil
		})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Size > cands[j].Size })
	return cands
}

func hasInstallerExt(name string) bool {
	for _, ext := range installerExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// artifactDirs are build outputs `lm purge` hunts for inside project
// roots.
var artifactDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"build":        true,
	"dist":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
}

// PurgeCandidates scans the configured project roots for build
// artifacts. Matches are not descended into; deleting the top directory
// covers the subtree.
func PurgeCandidates(roots []string) []guard.Candidate {
	var cands []guard.Candidate
	for _, root := range roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() || !artifactDirs[d.Name()] {
				return nil
			}
			cands = append(cands, guard.Candidate{
				Path:   p,
				Reason: d.Name() + " in " + filepath.Dir(p),
				Size:   DirSize(p),
			})
			return filepath.SkipDir
		})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Size > cands[j].Size })
	return cands
}
