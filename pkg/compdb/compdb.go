package compdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	incerrors "github.com/matzehuels/incgraph/pkg/errors"
)

// FileName is the compilation database file name inside a build directory.
const FileName = "compile_commands.json"

// TraceExt is appended to source paths to name trace outputs.
const TraceExt = ".dep"

// externalDir holds traces of sources that live outside the project root.
const externalDir = "_external"

// Entry is one compilation database record.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Load reads the compilation database of buildDir. A missing database is a
// fatal configuration error.
func Load(buildDir string) ([]Entry, error) {
	path := filepath.Join(buildDir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, incerrors.New(incerrors.ErrCodeMissingManifest,
			"%s does not exist; configure CMake with -DCMAKE_EXPORT_COMPILE_COMMANDS=ON", path)
	}
	if err != nil {
		return nil, incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	return entries, nil
}

// SourcePath returns the absolute-or-joined path of the entry's source file.
func (e Entry) SourcePath() string {
	if filepath.IsAbs(e.File) || e.Directory == "" {
		return filepath.Clean(e.File)
	}
	return filepath.Join(e.Directory, e.File)
}

// Task is one rewritten compiler invocation.
type Task struct {
	Source string   // Source file being compiled
	Output string   // Trace file receiving the compiler's stdout and stderr
	Dir    string   // Working directory
	Args   []string // Argument vector, run directly when Shell is empty
	Shell  string   // Command line run through the system shell
}

// Plan rewrites every entry into a task writing to
// outDir/<source relative to projectRoot>.dep. Response files are resolved
// against buildDir.
func Plan(entries []Entry, projectRoot, buildDir, outDir string) ([]Task, error) {
	tasks := make([]Task, 0, len(entries))
	for _, e := range entries {
		out, err := OutputPath(e.SourcePath(), projectRoot, outDir)
		if err != nil {
			return nil, err
		}
		dir := e.Directory
		if dir == "" {
			dir = buildDir
		}

		t := Task{Source: e.SourcePath(), Output: out, Dir: dir}
		if len(e.Arguments) > 0 {
			t.Args, err = RewriteArgs(e.Arguments, buildDir)
		} else {
			t.Shell, err = RewriteCommand(e.Command, buildDir)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.File, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// OutputPath maps a source file to its trace file under outDir. Sources
// outside projectRoot are placed under outDir/_external.
func OutputPath(source, projectRoot, outDir string) (string, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", err
	}
	absSrc, err := filepath.Abs(source)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absSrc)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Join(externalDir, stripParents(rel))
	}
	return filepath.Join(outDir, rel+TraceExt), nil
}

func stripParents(rel string) string {
	parts := strings.Split(rel, string(filepath.Separator))
	for len(parts) > 0 && parts[0] == ".." {
		parts = parts[1:]
	}
	return filepath.Join(parts...)
}

// RewriteCommand rewrites a shell command line: response files are inlined
// and -H is added.
func RewriteCommand(command, buildDir string) (string, error) {
	args, err := expand(strings.Fields(command), buildDir, func(s string) []string { return []string{s} })
	if err != nil {
		return "", err
	}
	return strings.Join(insertTraceFlag(args), " "), nil
}

// RewriteArgs is [RewriteCommand] for argument vectors. Response file
// contents are split on whitespace.
func RewriteArgs(args []string, buildDir string) ([]string, error) {
	out, err := expand(args, buildDir, strings.Fields)
	if err != nil {
		return nil, err
	}
	return insertTraceFlag(out), nil
}

func expand(args []string, buildDir string, split func(string) []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			out = append(out, a)
			continue
		}
		contents, err := readResponseFile(a[1:], buildDir)
		if err != nil {
			return nil, err
		}
		out = append(out, split(contents)...)
	}
	return out, nil
}

func readResponseFile(name, buildDir string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(buildDir, name)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", incerrors.Wrap(incerrors.ErrCodeFileNotFound, err, "read response file %s", p)
	}
	s := strings.ReplaceAll(string(data), "\r\n", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " ")), nil
}

// insertTraceFlag places -H just before the -o output pair, or at the end
// when the command names no output.
func insertTraceFlag(args []string) []string {
	if slices.Contains(args, "-H") {
		return args
	}
	i := slices.Index(args, "-o")
	if i < 0 {
		return append(args, "-H")
	}
	return slices.Insert(args, i, "-H")
}
