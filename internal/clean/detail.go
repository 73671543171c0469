package clean

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

// WriteDetailList saves the current preview to the config dir so it can
// be inspected after the terminal scrolls away.
func WriteDetailList(allowed []guard.Candidate, protected []guard.Protected) (string, error) {
	path, err := config.DetailListPath()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# clean preview %s\n\n", time.Now().Format(time.RFC3339))
	for _, c := range allowed {
		fmt.Fprintf(&sb, "%-10s  %s  %s\n", ui.FormatSize(c.Size), c.Reason, c.Path)
	}
	if len(protected) > 0 {
		sb.WriteString("\n# protected by whitelist\n")
		for _, p := range protected {
			fmt.Fprintf(&sb, "%s  (%s)\n", p.Path, p.Pattern)
		}
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
