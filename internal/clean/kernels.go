package clean

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// InstalledKernels lists linux-image packages and their versions.
func InstalledKernels() [][2]string {
	if !execx.Which("dpkg-query") {
		return nil
	}
	lines, err := execx.CaptureLines("dpkg-query", "-W", "-f", "${Package} ${Version}\n", "linux-image-[0-9]*")
	if err != nil {
		return nil
	}
	var res [][2]string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			res = append(res, [2]string{fields[0], fields[1]})
		}
	}
	return res
}

// sortVersionsDpkg orders kernel versions oldest to newest using dpkg's
// own comparison, which understands Debian version semantics.
func sortVersionsDpkg(versions []string) []string {
	out := append([]string(nil), versions...)
	if !execx.Which("dpkg") {
		return out
	}
	gt := func(a, b string) bool {
		return exec.Command("dpkg", "--compare-versions", a, "gt", b).Run() == nil
	}
	// Insertion sort; the list is a handful of kernels at most.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && gt(out[j-1], out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// KernelCandidates returns old kernel packages safe to purge: everything
// except the running kernel and the newest keep versions.
func KernelCandidates(keep int) []guard.Candidate {
	if keep < 1 {
		keep = 1
	}
	current, err := execx.Capture("uname", "-r")
	if err != nil {
		return nil
	}

	byVersion := make(map[string]string)
	var versions []string
	for _, kv := range InstalledKernels() {
		pkg := kv[0]
		version := strings.TrimPrefix(pkg, "linux-image-")
		if version == pkg {
			continue
		}
		versions = append(versions, version)
		byVersion[version] = pkg
	}
	if len(versions) == 0 {
		return nil
	}

	sorted := sortVersionsDpkg(versions)
	keepSet := map[string]bool{current: true}
	for _, v := range sorted[max(0, len(sorted)-keep):] {
		keepSet[v] = true
	}

	var cands []guard.Candidate
	for _, v := range sorted {
		if keepSet[v] {
			continue
		}
		pkg := byVersion[v]
		cands = append(cands, guard.Candidate{
			Reason: "purge old kernel " + pkg,
			Size:   kernelPkgSize(pkg),
			Remove: func() error { return execx.RunRoot("apt-get", "purge", "-y", pkg) },
		})
	}
	return cands
}

// kernelPkgSize returns the installed size of a package in bytes, or 0.
func kernelPkgSize(pkg string) int64 {
	out, err := execx.Capture("dpkg-query", "-W", "-f", "${Installed-Size}", pkg)
	if err != nil {
		return 0
	}
	kb, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0
	}
	return kb * 1024
}
