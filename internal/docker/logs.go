package docker

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// logDir is where the json-file logging driver keeps container logs.
const logDir = "/var/lib/docker/containers"

// LogFile is one container's json-file log on disk.
type LogFile struct {
	ContainerID string
	Path        string
	Size        int64
}

// CanReadLogs reports whether the log directory is accessible; it is
// root-owned on stock installs.
func CanReadLogs() bool {
	_, err := os.ReadDir(logDir)
	return err == nil
}

// ContainerLogFiles lists json-file logs sorted by size descending.
func ContainerLogFiles() ([]LogFile, error) {
	matches, err := filepath.Glob(filepath.Join(logDir, "*", "*-json.log"))
	if err != nil {
		return nil, err
	}
	var logs []LogFile
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		logs = append(logs, LogFile{
			ContainerID: filepath.Base(filepath.Dir(m)),
			Path:        m,
			Size:        info.Size(),
		})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Size > logs[j].Size })
	return logs, nil
}

// TruncateCandidates turns logs of at least minBytes into truncate
// actions. Truncation keeps the file and its inode so the daemon keeps
// writing to it.
func TruncateCandidates(minBytes int64) ([]guard.Candidate, error) {
	logs, err := ContainerLogFiles()
	if err != nil {
		return nil, err
	}
	var cands []guard.Candidate
	for _, lg := range logs {
		if lg.Size < minBytes {
			continue
		}
		path := lg.Path
		cands = append(cands, guard.Candidate{
			Path:   path,
			Reason: "truncate container log " + lg.ContainerID[:min(12, len(lg.ContainerID))],
			Size:   lg.Size,
			Remove: func() error { return os.Truncate(path, 0) },
		})
	}
	return cands, nil
}

// PruneCandidates builds the standard docker prune actions for the
// selected resources. Sizes are estimates from the previews.
func PruneCandidates(containers []Container, networks []Network, images []Image, volumes []Volume, builderCache bool) []guard.Candidate {
	var cands []guard.Candidate

	if len(containers) > 0 {
		var size int64
		for _, c := range containers {
			if b, ok := ParseContainerSize(c.Size); ok {
				size += b
			}
		}
		cands = append(cands, guard.Candidate{
			Reason: "remove stopped containers (docker container prune)",
			Size:   size,
			Remove: func() error { return execx.Run("docker", "container", "prune", "-f") },
		})
	}

	if len(networks) > 0 {
		cands = append(cands, guard.Candidate{
			Reason: "remove dangling networks (docker network prune)",
			Remove: func() error { return execx.Run("docker", "network", "prune", "-f") },
		})
	}

	for _, img := range images {
		ref := img.Repository + ":" + img.Tag
		if img.Repository == "" || img.Repository == "<none>" || img.Tag == "<none>" {
			ref = img.ID
		}
		size, _ := ParseSize(img.Size)
		cands = append(cands, guard.Candidate{
			Reason: "remove image " + ref,
			Size:   size,
			Remove: func() error { return execx.Run("docker", "rmi", ref) },
		})
	}

	if len(volumes) > 0 {
		names := make([]string, len(volumes))
		for i, v := range volumes {
			names[i] = v.Name
		}
		// Mountpoints are root-owned on stock installs; sizes degrade to
		// zero when unreadable.
		mounts := VolumeMountpoints(names)
		for _, v := range volumes {
			name := v.Name
			cands = append(cands, guard.Candidate{
				Reason: "remove volume " + name,
				Size:   dirSize(mounts[name]),
				Remove: func() error { return execx.Run("docker", "volume", "rm", name) },
			})
		}
	}

	if builderCache {
		cands = append(cands, guard.Candidate{
			Reason: "prune builder cache (docker builder prune)",
			Remove: func() error { return execx.Run("docker", "builder", "prune", "-f") },
		})
	}

	return cands
}

func dirSize(path string) int64 {
	if path == "" {
		return 0
	}
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
