package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// dotEmitter writes DOT only, so tests need no Graphviz.
func dotEmitter() *nodelink.Emitter {
	return nodelink.NewEmitter(nil, nil, []string{nodelink.FormatDOT}, quietLogger())
}

func quietLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.FatalLevel)
	return l
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(data)
}

func TestSourceBase(t *testing.T) {
	out := filepath.Join("graphs")
	tests := []struct {
		source string
		want   string
	}{
		{"CMakeFiles/app.dir/main.cpp.o", filepath.Join(out, "CMakeFiles", "app.dir", "main.cpp")},
		{"main.o", filepath.Join(out, "main")},
		{"/abs/path/x.o", filepath.Join(out, "abs", "path", "x")},
		{"../up/y.o", filepath.Join(out, "up", "y")},
		{"..", filepath.Join(out, "_")},
	}
	for _, tt := range tests {
		if got := sourceBase(out, tt.source); got != tt.want {
			t.Errorf("sourceBase(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestReportOK(t *testing.T) {
	r := newReport()
	if r.RunID == "" {
		t.Error("newReport() should assign a run ID")
	}
	if !r.OK() {
		t.Error("fresh report should be OK")
	}
	r.Failed++
	if r.OK() {
		t.Error("report with failures should not be OK")
	}
	if newReport().RunID == r.RunID {
		t.Error("run IDs should differ between runs")
	}
}
