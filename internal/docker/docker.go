// Package docker inspects the local Docker daemon through the docker
// CLI. Every query uses `--format '{{json .}}'` so output stays parseable
// across versions; docker itself is never reimplemented.
package docker

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/4ndymcfly/linuxmole/internal/execx"
)

// Container is one row of `docker ps -a`.
type Container struct {
	ID     string `json:"ID"`
	Image  string `json:"Image"`
	Names  string `json:"Names"`
	State  string `json:"State"`
	Status string `json:"Status"`
	Size   string `json:"Size"`
}

// Image is one row of `docker images`.
type Image struct {
	ID           string `json:"ID"`
	Repository   string `json:"Repository"`
	Tag          string `json:"Tag"`
	Size         string `json:"Size"`
	CreatedSince string `json:"CreatedSince"`
}

// Network is one row of `docker network ls`.
type Network struct {
	ID     string `json:"ID"`
	Name   string `json:"Name"`
	Driver string `json:"Driver"`
}

// Volume is one row of `docker volume ls`.
type Volume struct {
	Name   string `json:"Name"`
	Driver string `json:"Driver"`
}

// Available reports whether the docker CLI is on PATH.
func Available() bool {
	return execx.Which("docker")
}

// ParseJSONLines decodes one JSON document per line, skipping lines that
// are not JSON (docker sometimes mixes warnings into stdout).
func ParseJSONLines[T any](out string) []T {
	var res []T
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(ln), &v); err != nil {
			continue
		}
		res = append(res, v)
	}
	return res
}

func jsonLines[T any](args ...string) ([]T, error) {
	out, err := execx.Capture("docker", args...)
	if err != nil {
		return nil, err
	}
	return ParseJSONLines[T](out), nil
}

// AllContainers lists running and stopped containers with sizes.
func AllContainers() ([]Container, error) {
	return jsonLines[Container]("ps", "-a", "--size", "--no-trunc", "--format", "{{json .}}")
}

// StoppedContainers lists every container that is not running.
func StoppedContainers() ([]Container, error) {
	all, err := AllContainers()
	if err != nil {
		return nil, err
	}
	var stopped []Container
	for _, c := range all {
		if !strings.EqualFold(c.State, "running") {
			stopped = append(stopped, c)
		}
	}
	return stopped, nil
}

// AllImages lists every image including intermediates.
func AllImages() ([]Image, error) {
	return jsonLines[Image]("images", "-a", "--no-trunc", "--format", "{{json .}}")
}

// DanglingImages lists untagged images.
func DanglingImages() ([]Image, error) {
	return jsonLines[Image]("images", "-f", "dangling=true", "--no-trunc", "--format", "{{json .}}")
}

// DanglingNetworks lists networks with no attached container.
func DanglingNetworks() ([]Network, error) {
	return jsonLines[Network]("network", "ls", "-f", "dangling=true", "--no-trunc", "--format", "{{json .}}")
}

// DanglingVolumes lists volumes with no attached container.
func DanglingVolumes() ([]Volume, error) {
	return jsonLines[Volume]("volume", "ls", "-f", "dangling=true", "--format", "{{json .}}")
}

// VolumeMountpoints resolves volume names to host mountpoints.
func VolumeMountpoints(names []string) map[string]string {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"volume", "inspect", "--format", "{{.Name}} {{.Mountpoint}}"}, names...)
	out, err := execx.Capture("docker", args...)
	if err != nil {
		return nil
	}
	res := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(parts) == 2 {
			res[parts[0]] = parts[1]
		}
	}
	return res
}

// SystemDF returns the human-readable `docker system df` report.
func SystemDF() (string, error) {
	return execx.Capture("docker", "system", "df")
}

// BuilderDU returns the `docker builder du` report.
func BuilderDU() (string, error) {
	return execx.Capture("docker", "builder", "du")
}

// UsedImageRefs returns the image references (name:tag or ID) used by
// any container, running or stopped.
func UsedImageRefs() ([]string, error) {
	all, err := AllContainers()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var refs []string
	for _, c := range all {
		img := strings.TrimSpace(c.Image)
		if img != "" && !seen[img] {
			seen[img] = true
			refs = append(refs, img)
		}
	}
	return refs, nil
}

// ComputeUnused partitions images into dangling and unused-but-tagged.
// An image counts as used when any container references it by repo:tag,
// full ID, or short ID prefix.
func ComputeUnused(all, dangling []Image, usedRefs []string) (danglingOut, unused []Image) {
	used := make(map[string]bool, len(usedRefs))
	for _, r := range usedRefs {
		used[strings.ToLower(r)] = true
	}

	danglingIDs := make(map[string]bool, len(dangling))
	for _, d := range dangling {
		danglingIDs[d.ID] = true
	}

	for _, img := range all {
		shortID := strings.TrimPrefix(strings.ToLower(img.ID), "sha256:")
		if len(shortID) > 12 {
			shortID = shortID[:12]
		}
		repotag := ""
		if img.Repository != "" && img.Repository != "<none>" &&
			img.Tag != "" && img.Tag != "<none>" {
			repotag = strings.ToLower(img.Repository + ":" + img.Tag)
		}

		isUsed := used[strings.ToLower(img.ID)] || used[shortID] ||
			(repotag != "" && used[repotag])
		if !isUsed {
			for r := range used {
				if shortID != "" && strings.HasPrefix(shortID, r) {
					isUsed = true
					break
				}
			}
		}
		if isUsed || danglingIDs[img.ID] {
			continue
		}
		unused = append(unused, img)
	}
	return dangling, unused
}

// UnusedImages queries the daemon and partitions its images.
func UnusedImages() (dangling, unused []Image, err error) {
	all, err := AllImages()
	if err != nil {
		return nil, nil, err
	}
	dang, err := DanglingImages()
	if err != nil {
		return nil, nil, err
	}
	refs, err := UsedImageRefs()
	if err != nil {
		return nil, nil, err
	}
	dangling, unused = ComputeUnused(all, dang, refs)
	return dangling, unused, nil
}

var sizeRe = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGTP]?i?B)?\s*$`)

var sizeFactors = map[string]float64{
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"PB":  1e15,
	"KIB": 1 << 10,
	"MIB": 1 << 20,
	"GIB": 1 << 30,
	"TIB": 1 << 40,
	"PIB": 1 << 50,
}

// ParseSize converts docker-reported sizes like "1.23GB" or "45.6MiB"
// to bytes. Unknown formats return false.
func ParseSize(s string) (int64, bool) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToUpper(m[2])
	if unit == "" {
		unit = "B"
	}
	factor, ok := sizeFactors[unit]
	if !ok {
		return 0, false
	}
	return int64(math.Round(val * factor)), true
}

// ParseContainerSize handles `docker ps --size` values like
// "10.2MB (virtual 1.1GB)": only the writable layer counts.
func ParseContainerSize(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	first := strings.Fields(s)[0]
	return ParseSize(first)
}

// SumImageSizes totals the reported sizes of a set of images.
func SumImageSizes(imgs []Image) int64 {
	var total int64
	for _, img := range imgs {
		if b, ok := ParseSize(img.Size); ok {
			total += b
		}
	}
	return total
}
