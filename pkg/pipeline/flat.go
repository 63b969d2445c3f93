package pipeline

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/incgraph/pkg/cluster"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/observability"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
	"github.com/matzehuels/incgraph/pkg/rule"
	"github.com/matzehuels/incgraph/pkg/walk"
)

// RuleExt is the extension of Makefile-style dependency rules.
const RuleExt = ".d"

// Flat renders dependency graphs from .d rule files.
type Flat struct {
	Emitter *nodelink.Emitter
	Logger  *log.Logger

	// Ignore drops rule files whose path contains this substring.
	Ignore string
	// Exclude holds directory name globs that are not descended into.
	Exclude []string
}

// Run reads every rule under inRoot and writes graphs under outRoot:
//
//   - <outRoot>/<rule target without extension> per rule
//   - <outRoot>/<directory>/<cluster key> per directory
//   - <outRoot>/overall_dependency_graph for the whole tree
func (f *Flat) Run(ctx context.Context, inRoot, outRoot string) (*Report, error) {
	start := time.Now()
	rep := newReport()
	logger := loggerOrDefault(f.Logger).With("run", rep.RunID)
	defer func() { rep.Duration = time.Since(start) }()

	files, err := walk.Files(inRoot, RuleExt, walk.Options{Exclude: f.Exclude})
	if err != nil {
		return rep, incerrors.Wrap(incerrors.ErrCodeInvalidPath, err, "scan %s", inRoot)
	}
	logger.Debug("found rule files", "count", len(files), "root", inRoot)

	agg := cluster.New(cluster.Options{Ignore: f.Ignore})
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		f.ingest(ctx, agg, file, rep, logger)
	}

	if agg.Len() == 0 {
		logger.Warn("no usable rule files", "root", inRoot)
		return rep, nil
	}

	for _, c := range agg.Clusters() {
		for _, file := range c.Files {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			g := cluster.FileGraph(file.Record)
			emit(ctx, f.Emitter, logger, rep, g, nodelink.RuleStyle, sourceBase(outRoot, file.Record.Source))
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		base := filepath.Join(outRoot, filepath.FromSlash(c.Dir), c.Key)
		emit(ctx, f.Emitter, logger, rep, c.Graph(), nodelink.RuleStyle, base)
		logger.Info("cluster", "dir", c.Dir, "key", c.Key, "files", len(c.Files))
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	global := agg.GlobalGraph()
	emit(ctx, f.Emitter, logger, rep, global, nodelink.RuleStyle, filepath.Join(outRoot, cluster.GlobalName))
	logger.Info("overall graph", "nodes", global.NodeCount(), "edges", global.EdgeCount())
	return rep, nil
}

func (f *Flat) ingest(ctx context.Context, agg *cluster.Aggregator, file walk.File, rep *Report, logger *log.Logger) {
	if agg.Ignores(file.Path) {
		rep.Ignored++
		logger.Debug("ignored", "path", file.Path)
		return
	}

	rec, err := rule.ParseFile(file.Path)
	if err != nil {
		rep.Skipped++
		observability.Pipeline().OnFileSkipped(ctx, NameFlat, file.Path, err)
		logger.Warn("skipping unreadable rule", "path", file.Path, "err", err)
		return
	}
	if !rec.Valid() {
		rep.Skipped++
		observability.Pipeline().OnFileSkipped(ctx, NameFlat, file.Path, cluster.ErrInvalidRecord)
		logger.Debug("skipping rule without target", "path", file.Path)
		return
	}

	if _, err := agg.Add(file.RelDir, file.Path, rec); err != nil {
		if incerrors.Is(err, incerrors.ErrCodeKeyCollision) {
			rep.Failed++
			logger.Error("cluster rejected", "path", file.Path, "err", err)
		} else {
			rep.Skipped++
			logger.Warn("skipping rule", "path", file.Path, "err", err)
		}
		observability.Pipeline().OnFileSkipped(ctx, NameFlat, file.Path, err)
		return
	}
	rep.Files++
	observability.Pipeline().OnFileParsed(ctx, NameFlat, file.Path, len(rec.Deps)+1, len(rec.Deps))
}

// sourceBase maps a rule target to its per-file graph path under outRoot.
// The extension is dropped and the path is kept inside outRoot: leading
// slashes and parent references are removed.
func sourceBase(outRoot, source string) string {
	s := strings.TrimSuffix(source, path.Ext(source))
	parts := []string{outRoot}
	for _, p := range strings.Split(s, "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		parts = append(parts, "_")
	}
	return filepath.Join(parts...)
}
