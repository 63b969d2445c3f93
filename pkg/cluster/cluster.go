package cluster

import (
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/incgraph/pkg/dag"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/rule"
)

// GlobalName is the name given to the project-wide graph.
const GlobalName = "overall_dependency_graph"

var (
	// ErrKeyCollision is returned by [Aggregator.Add] when a directory hashes
	// to the key of a different directory already in the run.
	ErrKeyCollision = errors.New("cluster key collision")

	// ErrInvalidRecord is returned by [Aggregator.Add] for records parsed
	// from malformed rules.
	ErrInvalidRecord = errors.New("record has no source file")
)

// File is one rule file of a cluster.
type File struct {
	Path   string      // Path of the rule file that produced Record
	Record rule.Record // Parsed rule
}

// Cluster is the set of rules found in one directory.
type Cluster struct {
	Key   string // Stable short key, see [Key]
	Dir   string // Directory relative to the walk root, forward slashes
	Files []File // Rules in ingestion order
}

// Options configures an [Aggregator].
type Options struct {
	// Ignore drops every file whose path contains this substring. Empty
	// disables the filter.
	Ignore string

	// KeyFunc overrides [Key]. It exists for tests that need collisions.
	KeyFunc func(relDir string) string
}

// Aggregator accumulates rules over one directory walk.
//
// It is not safe for concurrent use; feed it from a single goroutine.
type Aggregator struct {
	opts     Options
	clusters map[string]*Cluster
	ignored  int
}

// New creates an empty aggregator.
func New(opts Options) *Aggregator {
	if opts.KeyFunc == nil {
		opts.KeyFunc = Key
	}
	return &Aggregator{
		opts:     opts,
		clusters: make(map[string]*Cluster),
	}
}

// Add ingests the rule parsed from file p found in relDir.
//
// It reports false without error when the ignore filter drops the file.
// Malformed records (code INVALID_RULE) and key collisions (code
// KEY_COLLISION) are rejected with an error and leave the aggregator
// unchanged. The errors match [ErrInvalidRecord] and [ErrKeyCollision].
func (a *Aggregator) Add(relDir, p string, rec rule.Record) (bool, error) {
	if a.Ignores(p) {
		a.ignored++
		return false, nil
	}
	if !rec.Valid() {
		return false, incerrors.Wrap(incerrors.ErrCodeInvalidRule, ErrInvalidRecord, "%s", p)
	}

	dir := normalizeDir(relDir)
	key := a.opts.KeyFunc(dir)
	c, ok := a.clusters[key]
	switch {
	case !ok:
		c = &Cluster{Key: key, Dir: dir}
		a.clusters[key] = c
	case c.Dir != dir:
		return false, incerrors.Wrap(incerrors.ErrCodeKeyCollision, ErrKeyCollision, "%s and %s both map to %s", c.Dir, dir, key)
	}
	c.Files = append(c.Files, File{Path: p, Record: rec})
	return true, nil
}

// Ignores reports whether the ignore filter drops path p. Callers may use
// it to avoid parsing files that [Aggregator.Add] would drop anyway.
func (a *Aggregator) Ignores(p string) bool {
	return a.opts.Ignore != "" && strings.Contains(p, a.opts.Ignore)
}

// Ignored returns the number of files dropped by the ignore filter.
func (a *Aggregator) Ignored() int { return a.ignored }

// Len returns the number of clusters.
func (a *Aggregator) Len() int { return len(a.clusters) }

// Cluster returns the cluster with the given key.
func (a *Aggregator) Cluster(key string) (*Cluster, bool) {
	c, ok := a.clusters[key]
	return c, ok
}

// Clusters returns all clusters sorted by key.
func (a *Aggregator) Clusters() []*Cluster {
	out := make([]*Cluster, 0, len(a.clusters))
	for _, c := range a.clusters {
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y *Cluster) int { return strings.Compare(x.Key, y.Key) })
	return out
}

// FileGraph returns the graph of a single rule: the source file and an
// edge to each of its header dependencies.
func FileGraph(rec rule.Record) *dag.Graph {
	g := dag.New(path.Base(rec.Source))
	addRecord(g, rec)
	return g
}

// ClusterGraph returns the union of every file graph in the cluster.
// It returns nil for an unknown key.
func (a *Aggregator) ClusterGraph(key string) *dag.Graph {
	c, ok := a.clusters[key]
	if !ok {
		return nil
	}
	return c.Graph()
}

// Graph returns the union of every file graph in the cluster.
func (c *Cluster) Graph() *dag.Graph {
	g := dag.New(c.Key)
	for _, f := range c.Files {
		addRecord(g, f.Record)
	}
	return g
}

// GlobalGraph returns the union of every cluster, in key order.
func (a *Aggregator) GlobalGraph() *dag.Graph {
	g := dag.New(GlobalName)
	for _, c := range a.Clusters() {
		g.Merge(c.Graph())
	}
	return g
}

func addRecord(g *dag.Graph, rec rule.Record) {
	if !rec.Valid() {
		return
	}
	src := path.Base(rec.Source)
	_ = g.AddNode(dag.Node{ID: src})
	for _, dep := range rec.Deps {
		_ = g.AddEdge(dag.Edge{From: src, To: path.Base(dep)})
	}
}
