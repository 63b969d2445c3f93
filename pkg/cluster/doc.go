// Package cluster groups dependency rules by directory and exposes the
// per-file, per-directory and project-wide graph views.
//
// # Keys
//
// Each directory gets a short, stable key built from its base name and the
// first 8 hex digits of the SHA-256 of its relative path, for example
// "cluster_net_1f3a9c07". The hash keeps equally named directories at
// different depths apart; the base name keeps output paths readable. Two
// distinct directories sharing a key are reported with [ErrKeyCollision].
//
// # Views
//
// All views label nodes by base file name:
//
//   - [FileGraph]: one source file and its direct header dependencies
//   - [Aggregator.ClusterGraph]: every file of one directory, nodes merged
//   - [Aggregator.GlobalGraph]: every cluster of the run
//
// Node declarations are merged, edges are not; two files in the same
// directory that both include common.h give one common.h node with two
// incoming edges.
//
// # Usage
//
//	agg := cluster.New(cluster.Options{Ignore: "third_party"})
//	for _, f := range files {
//	    rec, _ := rule.ParseFile(f.Path)
//	    if _, err := agg.Add(f.RelDir, f.Path, rec); err != nil {
//	        logger.Warn("skipping", "file", f.Path, "err", err)
//	    }
//	}
//	global := agg.GlobalGraph()
package cluster
