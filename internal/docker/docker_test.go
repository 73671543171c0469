package docker_test

import (
	"testing"

	"github.com/4ndymcfly/linuxmole/internal/docker"
)

func TestParseJSONLines(t *testing.T) {
	out := `{"ID":"abc123","Names":"web","State":"exited","Status":"Exited (0) 2 days ago","Size":"12.3MB (virtual 210MB)"}
WARNING: some daemon chatter
{"ID":"def456","Names":"db","State":"running","Status":"Up 3 hours","Size":"0B (virtual 310MB)"}

`
	containers := docker.ParseJSONLines[docker.Container](out)
	if len(containers) != 2 {
		t.Fatalf("got %d containers, want 2", len(containers))
	}
	if containers[0].Names != "web" || containers[0].State != "exited" {
		t.Errorf("first container = %+v", containers[0])
	}
	if containers[1].ID != "def456" {
		t.Errorf("second container = %+v", containers[1])
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0B", 0, true},
		{"512B", 512, true},
		{"1.5KB", 1500, true},
		{"1.23GB", 1230000000, true},
		{"45.6MiB", 47815066, true},
		{"2GiB", 2147483648, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"12 apples", 0, false},
	}
	for _, tt := range tests {
		got, ok := docker.ParseSize(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseSize(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseContainerSize(t *testing.T) {
	got, ok := docker.ParseContainerSize("10.2MB (virtual 1.1GB)")
	if !ok || got != 10200000 {
		t.Errorf("writable layer size = %d, %v", got, ok)
	}
	if _, ok := docker.ParseContainerSize(""); ok {
		t.Error("empty size must not parse")
	}
}

func TestComputeUnused(t *testing.T) {
	all := []docker.Image{
		{ID: "sha256:aaaa111122223333", Repository: "nginx", Tag: "latest", Size: "187MB"},
		{ID: "sha256:bbbb111122223333", Repository: "redis", Tag: "7", Size: "117MB"},
		{ID: "sha256:cccc111122223333", Repository: "<none>", Tag: "<none>", Size: "512MB"},
		{ID: "sha256:dddd111122223333", Repository: "old/app", Tag: "v1", Size: "95MB"},
	}
	dangling := []docker.Image{all[2]}

	tests := []struct {
		name       string
		usedRefs   []string
		wantUnused []string
	}{
		{
			name:       "used by repo:tag",
			usedRefs:   []string{"nginx:latest"},
			wantUnused: []string{"redis:7", "old/app:v1"},
		},
		{
			name:       "used by short id",
			usedRefs:   []string{"bbbb11112222"},
			wantUnused: []string{"nginx:latest", "old/app:v1"},
		},
		{
			name:       "nothing used",
			usedRefs:   nil,
			wantUnused: []string{"nginx:latest", "redis:7", "old/app:v1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDangling, unused := docker.ComputeUnused(all, dangling, tt.usedRefs)
			if len(gotDangling) != 1 || gotDangling[0].ID != all[2].ID {
				t.Errorf("dangling = %+v", gotDangling)
			}
			var refs []string
			for _, u := range unused {
				refs = append(refs, u.Repository+":"+u.Tag)
			}
			if len(refs) != len(tt.wantUnused) {
				t.Fatalf("unused = %v, want %v", refs, tt.wantUnused)
			}
			for i := range refs {
				if refs[i] != tt.wantUnused[i] {
					t.Errorf("unused[%d] = %s, want %s", i, refs[i], tt.wantUnused[i])
				}
			}
		})
	}
}

func TestSumImageSizes(t *testing.T) {
	imgs := []docker.Image{
		{Size: "100MB"},
		{Size: "1GB"},
		{Size: "garbage"},
	}
	if got := docker.SumImageSizes(imgs); got != 1100000000 {
		t.Errorf("SumImageSizes = %d", got)
	}
}
