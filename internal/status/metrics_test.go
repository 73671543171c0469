package status_test

import (
	"testing"

	"github.com/4ndymcfly/linuxmole/internal/status"
)

func TestHealthScoreBands(t *testing.T) {
	tests := []struct {
		name           string
		cpu, mem, disk float64
		want           int
	}{
		{"idle", 5, 20, 30, 100},
		{"cpu elevated", 80, 20, 30, 85},
		{"cpu critical", 95, 20, 30, 70},
		{"mem elevated", 5, 85, 30, 85},
		{"mem critical", 5, 95, 30, 70},
		{"disk elevated", 5, 20, 88, 85},
		{"disk critical", 5, 20, 95, 70},
		{"everything critical", 99, 99, 99, 10},
		{"elevated across the board", 80, 85, 88, 55},
		{"boundaries are exclusive", 75, 80, 85, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.HealthScore(tt.cpu, tt.mem, tt.disk); got != tt.want {
				t.Errorf("HealthScore(%v, %v, %v) = %d, want %d",
					tt.cpu, tt.mem, tt.disk, got, tt.want)
			}
		})
	}
}
