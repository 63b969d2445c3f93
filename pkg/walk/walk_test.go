package walk

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"top.d",
		"src/a.d",
		"src/a.o",
		"src/net/b.d",
		"third_party/zlib/z.d",
		"CMakeFiles/x/c.d",
	)

	tests := []struct {
		name string
		opts Options
		want []File
	}{
		{
			name: "all rule files",
			want: []File{
				{filepath.Join(root, "CMakeFiles/x/c.d"), "CMakeFiles/x"},
				{filepath.Join(root, "src/a.d"), "src"},
				{filepath.Join(root, "src/net/b.d"), "src/net"},
				{filepath.Join(root, "third_party/zlib/z.d"), "third_party/zlib"},
				{filepath.Join(root, "top.d"), "."},
			},
		},
		{
			name: "exclude glob",
			opts: Options{Exclude: []string{"CMake*", "net"}},
			want: []File{
				{filepath.Join(root, "src/a.d"), "src"},
				{filepath.Join(root, "third_party/zlib/z.d"), "third_party/zlib"},
				{filepath.Join(root, "top.d"), "."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Files(root, ".d", tt.opts)
			if err != nil {
				t.Fatalf("Files() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Files() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Files()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilesErrors(t *testing.T) {
	if _, err := Files(filepath.Join(t.TempDir(), "missing"), ".d", Options{}); err == nil {
		t.Error("Files(missing root) should fail")
	}
	if _, err := Files(t.TempDir(), ".d", Options{Exclude: []string{"[unclosed"}}); err == nil {
		t.Error("Files(bad glob) should fail")
	}
}
