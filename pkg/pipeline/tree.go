package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/incgraph/pkg/compdb"
	"github.com/matzehuels/incgraph/pkg/dag"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/observability"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
	"github.com/matzehuels/incgraph/pkg/trace"
	"github.com/matzehuels/incgraph/pkg/walk"
)

// Tree produces header inclusion trees from compiler -H traces.
type Tree struct {
	Emitter    *nodelink.Emitter
	Dispatcher *compdb.Dispatcher
	Logger     *log.Logger
	Parser     trace.Parser

	// Exclude holds directory name globs that Run does not descend into.
	Exclude []string
}

// Generate compiles every entry of buildDir's compilation database with -H
// and writes each trace to outDir, mirroring the layout of projectRoot.
//
// A missing compile_commands.json aborts before anything runs. Failing
// compilers are counted in the report and never stop the others.
func (t *Tree) Generate(ctx context.Context, projectRoot, buildDir, outDir string) (*Report, error) {
	start := time.Now()
	rep := newReport()
	logger := loggerOrDefault(t.Logger).With("run", rep.RunID)
	defer func() { rep.Duration = time.Since(start) }()

	entries, err := compdb.Load(buildDir)
	if err != nil {
		return rep, err
	}
	tasks, err := compdb.Plan(entries, projectRoot, buildDir, outDir)
	if err != nil {
		return rep, incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "plan compile commands")
	}
	logger.Info("compiling", "commands", len(tasks), "build", buildDir)

	d := t.Dispatcher
	if d == nil {
		d = compdb.NewDispatcher(0, 0, logger)
	}
	results, err := d.Run(ctx, tasks)
	failed := compdb.Failed(results)
	rep.Failed = len(failed)
	rep.Files = len(results) - len(failed)
	for _, r := range failed {
		if incerrors.Is(r.Err, incerrors.ErrCodeTimeout) {
			logger.Warn("compiler timed out", "source", r.Task.Source, "trace", r.Task.Output)
		}
	}
	return rep, err
}

// Run renders a graph next to every .dep trace under outDir, named after
// the trace without its extension. Empty traces and traces without a valid
// root are skipped and reported.
func (t *Tree) Run(ctx context.Context, outDir string) (*Report, error) {
	start := time.Now()
	rep := newReport()
	logger := loggerOrDefault(t.Logger).With("run", rep.RunID)
	defer func() { rep.Duration = time.Since(start) }()

	files, err := walk.Files(outDir, compdb.TraceExt, walk.Options{Exclude: t.Exclude})
	if err != nil {
		return rep, incerrors.Wrap(incerrors.ErrCodeInvalidPath, err, "scan %s", outDir)
	}
	logger.Debug("found traces", "count", len(files), "root", outDir)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		base := strings.TrimSuffix(file.Path, compdb.TraceExt)
		g, err := t.build(file.Path, filepath.Base(base))
		switch {
		case err != nil:
			rep.Skipped++
			observability.Pipeline().OnFileSkipped(ctx, NameTree, file.Path, err)
			logger.Warn("skipping trace", "path", file.Path, "err", err)
			continue
		case g.Empty():
			rep.Skipped++
			observability.Pipeline().OnFileSkipped(ctx, NameTree, file.Path, nil)
			logger.Debug("skipping empty trace", "path", file.Path)
			continue
		}
		rep.Files++
		observability.Pipeline().OnFileParsed(ctx, NameTree, file.Path, g.NodeCount(), g.EdgeCount())
		emit(ctx, t.Emitter, logger, rep, g, nodelink.TraceStyle, base)
	}
	return rep, nil
}

func (t *Tree) build(p, name string) (*dag.Graph, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := t.Parser.Parse(f)
	if err != nil {
		return nil, err
	}
	g, err := trace.BuildNamed(name, entries)
	if err != nil {
		if errors.Is(err, trace.ErrNoRoot) || errors.Is(err, trace.ErrDepthJump) {
			return nil, incerrors.Wrap(incerrors.ErrCodeInvalidTrace, err, "%s", p)
		}
		return nil, err
	}
	return g, nil
}
