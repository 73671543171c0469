// Package execx wraps the external tools the cleaner drives (docker, apt,
// journalctl, systemctl, ...). Everything here shells out; nothing is
// reimplemented.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Which reports whether name resolves on PATH.
func Which(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsRoot reports whether the process runs with euid 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// Run executes a command, streaming output to the terminal.
func Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// RunContext is Run with cancellation.
func RunContext(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// RunRoot executes a command that needs root. When the process is not
// root it is re-run through sudo; without sudo available it fails.
func RunRoot(name string, args ...string) error {
	if IsRoot() {
		return Run(name, args...)
	}
	if !Which("sudo") {
		return fmt.Errorf("%s requires root and sudo is not available", name)
	}
	return Run("sudo", append([]string{name}, args...)...)
}

// Capture runs a command and returns its trimmed stdout. A non-zero exit
// is an error carrying the command name.
func Capture(name string, args ...string) (string, error) {
	var out, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}

// CaptureLines runs a command and splits its stdout into non-empty lines.
func CaptureLines(name string, args ...string) ([]string, error) {
	out, err := Capture(name, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// CommandString renders a command line for plan display.
func CommandString(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
