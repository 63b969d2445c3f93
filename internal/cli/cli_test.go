package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/incgraph/internal/config"
	"github.com/matzehuels/incgraph/pkg/cache"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/pipeline"
)

// runCLI executes the root command with args and returns what the command
// wrote to its output stream.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestFile(t *testing.T, p, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFlatCommand(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTestFile(t, filepath.Join(in, "src", "a.d"), "src/a.o: src/a.cpp src/a.h\n")
	writeTestFile(t, filepath.Join(in, "vendor", "v.d"), "v.o: v.c v.h\n")

	if _, err := runCLI(t, "flat", in, out, "vendor", "-f", "dot,json"); err != nil {
		t.Fatalf("flat error = %v", err)
	}
	for _, name := range []string{"overall_dependency_graph.dot", "overall_dependency_graph.json", "src/a.dot"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s", name)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "v.dot")); err == nil {
		t.Error("ignored rule should not be rendered")
	}
}

func TestFlatCommandScansCMakeFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTestFile(t, filepath.Join(in, "CMakeFiles", "app.dir", "src", "main.cpp.o.d"),
		"CMakeFiles/app.dir/src/main.cpp.o: src/main.cpp src/app.h\n")

	if _, err := runCLI(t, "flat", in, out, "-f", "dot"); err != nil {
		t.Fatalf("flat error = %v", err)
	}
	for _, name := range []string{"overall_dependency_graph.dot", "CMakeFiles/app.dir/src/main.cpp.dot"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s", name)
		}
	}
}

func TestMissingArgsFail(t *testing.T) {
	tests := [][]string{
		{"flat"},
		{"flat", "only-input"},
		{"tree", "project"},
		{"tree", "render"},
		{"render"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := runCLI(t, args...); err == nil {
				t.Errorf("%v should fail", args)
			}
		})
	}
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := runCLI(t, "flat", t.TempDir(), t.TempDir(), "-f", "pdf")
	if !incerrors.Is(err, incerrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want invalid config", err)
	}
}

func TestTreeCommandMissingDatabase(t *testing.T) {
	_, err := runCLI(t, "tree", t.TempDir(), t.TempDir(), t.TempDir(), "-f", "dot")
	if !incerrors.Is(err, incerrors.ErrCodeMissingManifest) {
		t.Errorf("error = %v, want missing manifest", err)
	}
}

func TestTreeRenderCommand(t *testing.T) {
	out := t.TempDir()
	writeTestFile(t, filepath.Join(out, "main.cpp.dep"), ". /inc/a.h\n.. /inc/b.h\n")

	if _, err := runCLI(t, "tree", "render", out, "-f", "dot"); err != nil {
		t.Fatalf("tree render error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "main.cpp.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"/inc/a.h" -> "/inc/b.h"`) {
		t.Errorf("unexpected graph:\n%s", data)
	}
}

func TestRenderCommand(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTestFile(t, filepath.Join(in, "a.d"), "a.o: a.cpp a.h b.h\n")
	if _, err := runCLI(t, "flat", in, out, "-f", "json"); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(t.TempDir(), "again")
	src := filepath.Join(out, "overall_dependency_graph.json")
	if _, err := runCLI(t, "render", src, "-f", "dot", "--style", "trace", "-o", target); err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(target + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"a.o" -> "b.h"`) {
		t.Errorf("unexpected graph:\n%s", data)
	}

	if _, err := runCLI(t, "render", src, "--style", "fancy"); !incerrors.Is(err, incerrors.ErrCodeInvalidInput) {
		t.Errorf("invalid style error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	cfg := filepath.Join(t.TempDir(), "incgraph.toml")
	writeTestFile(t, cfg, "cache_dir = '"+filepath.ToSlash(dir)+"'\n")
	writeTestFile(t, filepath.Join(dir, "ab", "cdef.json"), "{}")

	out, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) && strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	if _, err := runCLI(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestBadConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "incgraph.toml")
	writeTestFile(t, cfg, "workers = -3\n")
	_, err := runCLI(t, "--config", cfg, "cache", "path")
	if !incerrors.IsFatal(err) {
		t.Errorf("error = %v, want fatal config error", err)
	}
}

func TestNewCache(t *testing.T) {
	off := false
	tests := []struct {
		name       string
		noCache    bool
		cfg        config.Config
		wantReason string
	}{
		{"flag", true, config.Config{}, "--no-cache"},
		{"config", false, config.Config{Cache: &off}, "cache = false"},
		{"enabled", false, config.Config{CacheDir: ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.CacheDir == "" {
				tt.cfg.CacheDir = t.TempDir()
			}
			c := New(io.Discard, LogInfo)
			c.noCache = tt.noCache
			ch, err := c.newCache(&tt.cfg)
			if err != nil {
				t.Fatalf("newCache() error = %v", err)
			}
			defer ch.Close()

			nc, disabled := ch.(cache.NullCache)
			if tt.wantReason == "" {
				if disabled {
					t.Errorf("cache disabled: %s", nc.Reason)
				}
				return
			}
			if !disabled || nc.Reason != tt.wantReason {
				t.Errorf("newCache() = %#v, want NullCache with reason %q", ch, tt.wantReason)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "incgraph") {
		t.Error("bash completion should mention incgraph")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"svg", "png", "dot", "json"}},
		{"s", []string{"svg", "png", "dot", "json"}},
		{"svg,", []string{"svg,png", "svg,dot", "svg,json"}},
		{"svg,dot,j", []string{"svg,dot,png", "svg,dot,json"}},
	}
	for _, tt := range tests {
		got, _ := completeFormats(nil, nil, tt.toComplete)
		if !slices.Equal(got, tt.want) {
			t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
		}
	}
}

func TestStyleCompletion(t *testing.T) {
	out, err := runCLI(t, "__complete", "render", "graph.json", "--style", "")
	if err != nil {
		t.Fatalf("__complete error = %v", err)
	}
	for _, want := range []string{"rule", "trace"} {
		if !strings.Contains(out, want) {
			t.Errorf("style completions %q missing %s", out, want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, png ,dot", []string{"svg", "png", "dot"}},
		{",,", []string{"svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNeedsGraphviz(t *testing.T) {
	if needsGraphviz([]string{"dot", "json"}) {
		t.Error("dot and json render without graphviz")
	}
	if !needsGraphviz([]string{"json", "png"}) {
		t.Error("png needs graphviz")
	}
}

func TestReportLine(t *testing.T) {
	line := reportLine(&pipeline.Report{Files: 4, Skipped: 1})
	for _, want := range []string{"4", "inputs", "skipped"} {
		if !strings.Contains(line, want) {
			t.Errorf("reportLine() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(line, "failed") {
		t.Errorf("reportLine() = %q should omit zero counters", line)
	}
}
