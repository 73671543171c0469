// Package whitelist maintains the set of glob patterns that protect paths
// from every destructive operation in the tool. The set is the union of a
// compiled-in built-in list and a user file; built-ins can never be removed.
package whitelist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source tells where a pattern came from.
type Source int

const (
	SourceBuiltIn Source = iota
	SourceUser
)

// Pattern is one protection glob together with its origin.
type Pattern struct {
	Glob   string
	Source Source
}

// builtins are always active regardless of the user file. Order matters
// only for display.
var builtins = []string{
	"/etc/passwd",
	"/etc/shadow",
	"/etc/fstab",
	"/boot/*",
	"/sys/*",
	"/proc/*",
	"/home/*/.ssh/*",
	"/home/*/.gnupg/*",
}

// Builtins returns a copy of the built-in pattern list.
func Builtins() []string {
	return append([]string(nil), builtins...)
}

// Whitelist is the loaded pattern set backed by a user file.
type Whitelist struct {
	path     string
	user     []string
	warnings []string
}

// Load reads the user pattern file at path and unions it with the
// built-ins. A missing or unreadable file is not fatal: the whitelist
// degrades to built-ins only and records a warning.
func Load(path string) *Whitelist {
	wl := &Whitelist{path: path}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			wl.warnings = append(wl.warnings,
				fmt.Sprintf("whitelist file unreadable, using built-ins only: %v", err))
		}
		return wl
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wl.addUser(expandHome(line))
	}
	if err := sc.Err(); err != nil {
		wl.warnings = append(wl.warnings,
			fmt.Sprintf("whitelist file partially read: %v", err))
	}
	return wl
}

// Warnings returns load-time problems worth surfacing to the user.
func (w *Whitelist) Warnings() []string {
	return append([]string(nil), w.warnings...)
}

// Patterns returns the full active set, built-ins first.
func (w *Whitelist) Patterns() []Pattern {
	out := make([]Pattern, 0, len(builtins)+len(w.user))
	for _, b := range builtins {
		out = append(out, Pattern{Glob: b, Source: SourceBuiltIn})
	}
	for _, u := range w.user {
		out = append(out, Pattern{Glob: u, Source: SourceUser})
	}
	return out
}

// UserPatterns returns only the user-defined patterns.
func (w *Whitelist) UserPatterns() []string {
	return append([]string(nil), w.user...)
}

// Match reports whether path is protected, and by which pattern.
// A pattern protects a path when it matches the path itself or when the
// path sits underneath a directory the pattern matches.
func (w *Whitelist) Match(path string) (string, bool) {
	path = filepath.Clean(path)
	for _, p := range w.Patterns() {
		if matchGlob(p.Glob, path) {
			return p.Glob, true
		}
		// "/boot/*" must also protect "/boot" itself.
		if strings.HasSuffix(p.Glob, "/*") && path == strings.TrimSuffix(p.Glob, "/*") {
			return p.Glob, true
		}
		// A pattern naming a directory protects everything below it.
		for dir := filepath.Dir(path); len(dir) > 1; dir = filepath.Dir(dir) {
			if matchGlob(p.Glob, dir) {
				return p.Glob, true
			}
		}
	}
	return "", false
}

// IsWhitelisted reports whether path is protected.
func (w *Whitelist) IsWhitelisted(path string) bool {
	_, ok := w.Match(path)
	return ok
}

// Add appends a user pattern and rewrites the file. Duplicates (against
// built-ins or existing user patterns) are a no-op.
func (w *Whitelist) Add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("empty pattern")
	}
	pattern = expandHome(pattern)
	for _, b := range builtins {
		if b == pattern {
			return nil
		}
	}
	for _, u := range w.user {
		if u == pattern {
			return nil
		}
	}
	w.user = append(w.user, pattern)
	return w.save()
}

// Remove drops a user pattern and rewrites the file. Built-ins and
// unknown patterns are rejected.
func (w *Whitelist) Remove(pattern string) error {
	pattern = expandHome(strings.TrimSpace(pattern))
	for _, b := range builtins {
		if b == pattern {
			return fmt.Errorf("%s is a built-in pattern and cannot be removed", pattern)
		}
	}
	for i, u := range w.user {
		if u == pattern {
			w.user = append(w.user[:i], w.user[i+1:]...)
			return w.save()
		}
	}
	return fmt.Errorf("pattern not in whitelist: %s", pattern)
}

func (w *Whitelist) addUser(pattern string) {
	for _, b := range builtins {
		if b == pattern {
			return
		}
	}
	for _, u := range w.user {
		if u == pattern {
			return
		}
	}
	w.user = append(w.user, pattern)
}

// save rewrites the user file atomically: write a temp file in the same
// directory, then rename over the original.
func (w *Whitelist) save() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("# linuxmole whitelist: one glob pattern per line.\n")
	sb.WriteString("# Matching paths are never deleted. Built-in patterns are\n")
	sb.WriteString("# always active and do not need to be listed here.\n")
	for _, u := range w.user {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}
	tmp, err := os.CreateTemp(dir, ".whitelist-*")
	if err != nil {
		return fmt.Errorf("write whitelist: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write whitelist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write whitelist: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write whitelist: %w", err)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// matchGlob matches pattern against s with shell-style wildcards where
// '*' matches any run of characters including '/' and '?' matches any
// single character. Character classes are not supported; '[' is literal.
func matchGlob(pattern, s string) bool {
	px, sx := 0, 0
	starPx, starSx := -1, -1
	for sx < len(s) {
		switch {
		case px < len(pattern) && (pattern[px] == '?' || pattern[px] == s[sx]):
			px++
			sx++
		case px < len(pattern) && pattern[px] == '*':
			starPx, starSx = px, sx
			px++
		case starPx >= 0:
			starSx++
			px = starPx + 1
			sx = starSx
		default:
			return false
		}
	}
	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}
