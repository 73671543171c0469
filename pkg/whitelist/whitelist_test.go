package whitelist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

func TestMatchGlobSemantics(t *testing.T) {
	wl := whitelist.Load(filepath.Join(t.TempDir(), "whitelist.txt"))

	tests := []struct {
		path string
		want bool
	}{
		{"/etc/passwd", true},
		{"/etc/passwd.bak", false},
		{"/boot/vmlinuz-6.8.0", true},
		{"/boot/grub/grub.cfg", true}, // '*' crosses separators
		{"/boot", true},               // directory itself is protected
		{"/bootleg", false},
		{"/proc/1/status", true},
		{"/home/ana/.ssh/id_ed25519", true},
		{"/home/ana/.sshfs", false},
		{"/home/deep/nested/user/.ssh/key", true},
		{"/var/tmp/x", false},
	}
	for _, tt := range tests {
		if got := wl.IsWhitelisted(tt.path); got != tt.want {
			t.Errorf("IsWhitelisted(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestUserPatternsUnionBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.txt")
	content := "# keep my media\n\n/srv/media/*\n/opt/keep\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	wl := whitelist.Load(path)
	if got := len(wl.UserPatterns()); got != 2 {
		t.Fatalf("user patterns = %d, want 2", got)
	}
	if !wl.IsWhitelisted("/srv/media/movies/a.mkv") {
		t.Error("user pattern did not match")
	}
	if !wl.IsWhitelisted("/etc/shadow") {
		t.Error("built-in lost after loading user file")
	}
	if pat, ok := wl.Match("/opt/keep"); !ok || pat != "/opt/keep" {
		t.Errorf("Match(/opt/keep) = %q, %v", pat, ok)
	}
}

func TestBuiltinsSurviveMissingFile(t *testing.T) {
	wl := whitelist.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(wl.Warnings()) != 0 {
		t.Errorf("missing file should not warn: %v", wl.Warnings())
	}
	if len(whitelist.Builtins()) == 0 {
		t.Fatal("no built-in patterns")
	}
	if !wl.IsWhitelisted("/sys/kernel/debug") {
		t.Error("built-ins inactive with missing user file")
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.txt")
	wl := whitelist.Load(path)

	if err := wl.Add("/data/important/*"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Duplicate add is a no-op.
	if err := wl.Add("/data/important/*"); err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}

	reloaded := whitelist.Load(path)
	if got := reloaded.UserPatterns(); len(got) != 1 || got[0] != "/data/important/*" {
		t.Fatalf("reload after Add = %v", got)
	}
	if !reloaded.IsWhitelisted("/data/important/db.sqlite") {
		t.Error("added pattern inactive after reload")
	}

	if err := reloaded.Remove("/data/important/*"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	final := whitelist.Load(path)
	if len(final.UserPatterns()) != 0 {
		t.Errorf("patterns after Remove = %v", final.UserPatterns())
	}
}

func TestRemoveRejectsBuiltinsAndUnknown(t *testing.T) {
	wl := whitelist.Load(filepath.Join(t.TempDir(), "whitelist.txt"))
	if err := wl.Remove("/etc/passwd"); err == nil {
		t.Error("removing a built-in should fail")
	}
	if err := wl.Remove("/never/added"); err == nil {
		t.Error("removing an unknown pattern should fail")
	}
}
