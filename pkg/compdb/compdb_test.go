package compdb

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	incerrors "github.com/matzehuels/incgraph/pkg/errors"
)

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !incerrors.Is(err, incerrors.ErrCodeMissingManifest) {
		t.Fatalf("Load() error = %v, want missing manifest", err)
	}
	if !incerrors.IsFatal(err) {
		t.Error("missing compile_commands.json should be fatal")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	data := `[
  {"directory": "/b", "file": "/p/a.cpp", "command": "g++ -c /p/a.cpp -o a.o"},
  {"directory": "/b", "file": "b.cpp", "arguments": ["g++", "-c", "b.cpp"]}
]`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Command == "" || len(entries[1].Arguments) != 3 {
		t.Errorf("entries = %+v", entries)
	}
	if got := entries[1].SourcePath(); got != filepath.Join("/b", "b.cpp") {
		t.Errorf("SourcePath() = %q", got)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !incerrors.Is(err, incerrors.ErrCodeInvalidConfig) {
		t.Fatalf("Load() error = %v, want invalid config", err)
	}
}

func TestInsertTraceFlag(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"before output", []string{"g++", "-c", "a.cpp", "-o", "a.o"}, []string{"g++", "-c", "a.cpp", "-H", "-o", "a.o"}},
		{"output first", []string{"g++", "-o", "a.o", "-c", "a.cpp"}, []string{"g++", "-H", "-o", "a.o", "-c", "a.cpp"}},
		{"no output", []string{"g++", "-c", "a.cpp"}, []string{"g++", "-c", "a.cpp", "-H"}},
		{"already present", []string{"g++", "-H", "-c", "a.cpp"}, []string{"g++", "-H", "-c", "a.cpp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insertTraceFlag(slices.Clone(tt.in)); !slices.Equal(got, tt.want) {
				t.Errorf("insertTraceFlag(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteResponseFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "flags.rsp"), []byte("-Iinc\r\n-DX=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := RewriteCommand("g++ @flags.rsp -c a.cpp -o a.o", dir)
	if err != nil {
		t.Fatalf("RewriteCommand() error = %v", err)
	}
	if want := "g++ -Iinc -DX=1 -c a.cpp -H -o a.o"; cmd != want {
		t.Errorf("RewriteCommand() = %q, want %q", cmd, want)
	}

	args, err := RewriteArgs([]string{"g++", "@flags.rsp", "-c", "a.cpp"}, dir)
	if err != nil {
		t.Fatalf("RewriteArgs() error = %v", err)
	}
	if want := []string{"g++", "-Iinc", "-DX=1", "-c", "a.cpp", "-H"}; !slices.Equal(args, want) {
		t.Errorf("RewriteArgs() = %v, want %v", args, want)
	}
}

func TestRewriteMissingResponseFile(t *testing.T) {
	_, err := RewriteCommand("g++ @missing.rsp -c a.cpp", t.TempDir())
	if !incerrors.Is(err, incerrors.ErrCodeFileNotFound) {
		t.Fatalf("RewriteCommand() error = %v, want file not found", err)
	}
}

func TestOutputPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	out := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"nested", filepath.Join(root, "src", "core", "a.cpp"), filepath.Join(out, "src", "core", "a.cpp.dep")},
		{"top", filepath.Join(root, "main.cpp"), filepath.Join(out, "main.cpp.dep")},
		{"outside", filepath.Join(filepath.Dir(root), "gen", "g.cpp"), filepath.Join(out, externalDir, "gen", "g.cpp.dep")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath(tt.source, root, out)
			if err != nil {
				t.Fatalf("OutputPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	root := t.TempDir()
	build := filepath.Join(root, "build")
	out := filepath.Join(root, "deps")
	entries := []Entry{
		{Directory: build, File: filepath.Join(root, "a.cpp"), Command: "g++ -c a.cpp -o a.o"},
		{File: filepath.Join(root, "b.cpp"), Arguments: []string{"g++", "-c", "b.cpp"}},
	}

	tasks, err := Plan(entries, root, build, out)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Shell != "g++ -c a.cpp -H -o a.o" || tasks[0].Dir != build {
		t.Errorf("tasks[0] = %+v", tasks[0])
	}
	if tasks[0].Output != filepath.Join(out, "a.cpp.dep") {
		t.Errorf("tasks[0].Output = %q", tasks[0].Output)
	}
	if tasks[1].Shell != "" || !slices.Equal(tasks[1].Args, []string{"g++", "-c", "b.cpp", "-H"}) {
		t.Errorf("tasks[1] = %+v", tasks[1])
	}
	if tasks[1].Dir != build {
		t.Errorf("tasks[1].Dir = %q, want build dir fallback", tasks[1].Dir)
	}
}
