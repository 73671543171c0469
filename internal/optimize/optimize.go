// Package optimize builds the system maintenance plans: database
// rebuilds, network cache flushes, systemd housekeeping and the page
// cache drop. Plans run through the guard engine.
package optimize

import (
	"strings"

	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/guard"
)

// Selection picks which plan groups to build. The zero value selects
// nothing; All covers everything except the page cache drop, which is
// dangerous enough to need its own flag and its own confirmation.
type Selection struct {
	Database bool
	Network  bool
	Services bool
}

// All selects every safe group.
func All() Selection {
	return Selection{Database: true, Network: true, Services: true}
}

func cmdCandidate(reason string, root bool, name string, args ...string) guard.Candidate {
	run := func() error { return execx.Run(name, args...) }
	if root {
		run = func() error { return execx.RunRoot(name, args...) }
	}
	return guard.Candidate{Reason: reason, Remove: run}
}

// BuildPlan assembles the available actions for a selection. Tools not
// present on the host are silently skipped.
func BuildPlan(sel Selection) []guard.Candidate {
	var cands []guard.Candidate

	if sel.Database {
		if execx.Which("updatedb") {
			cands = append(cands, cmdCandidate("rebuild locate database", true, "updatedb"))
		}
		if execx.Which("mandb") {
			cands = append(cands, cmdCandidate("update man pages database", true, "mandb", "-q"))
		}
		if execx.Which("ldconfig") {
			cands = append(cands, cmdCandidate("rebuild dynamic linker cache", true, "ldconfig"))
		}
		if execx.Which("fc-cache") {
			cands = append(cands, cmdCandidate("refresh font cache", false, "fc-cache", "-f"))
		}
		if execx.Which("update-mime-database") {
			cands = append(cands, cmdCandidate("update MIME database", true, "update-mime-database", "/usr/share/mime"))
		}
		if execx.Which("update-desktop-database") {
			cands = append(cands, cmdCandidate("update desktop database", true, "update-desktop-database"))
		}
	}

	if sel.Network {
		if execx.Which("resolvectl") {
			cands = append(cands, cmdCandidate("flush DNS cache", true, "resolvectl", "flush-caches"))
		} else if execx.Which("systemd-resolve") {
			cands = append(cands, cmdCandidate("flush DNS cache", true, "systemd-resolve", "--flush-caches"))
		}
		if execx.Which("systemctl") && networkManagerActive() {
			cands = append(cands, cmdCandidate("restart NetworkManager", true, "systemctl", "restart", "NetworkManager"))
		}
		if execx.Which("ip") {
			cands = append(cands, cmdCandidate("clear ARP cache", true, "ip", "-s", "-s", "neigh", "flush", "all"))
		}
	}

	if sel.Services && execx.Which("systemctl") {
		cands = append(cands,
			cmdCandidate("reload systemd daemon", true, "systemctl", "daemon-reload"),
			cmdCandidate("reset failed systemd units", true, "systemctl", "reset-failed"))
	}

	return cands
}

// PageCachePlan is the page cache drop. Callers must gate it behind an
// explicit extra confirmation: dropping caches stalls running workloads.
func PageCachePlan() []guard.Candidate {
	return []guard.Candidate{
		cmdCandidate("sync filesystems", true, "sync"),
		cmdCandidate("drop page cache", true, "sh", "-c", "echo 3 > /proc/sys/vm/drop_caches"),
	}
}

func networkManagerActive() bool {
	out, err := execx.Capture("systemctl", "is-active", "NetworkManager")
	return err == nil && strings.Contains(out, "active")
}
