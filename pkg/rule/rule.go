// Package rule parses Makefile-style dependency rules written by compilers
// run with -MD or -MMD.
//
// A rule file looks like:
//
//	obj/app.o: src/app.cpp src/app.h \
//	  include/util.hpp /usr/include/stdio.h
//
// [Parse] keeps the target and only those prerequisites that are headers.
package rule

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strings"
)

// HeaderExts is the allowlist of prerequisite extensions kept by [Parse].
var HeaderExts = []string{".h", ".hpp"}

// Record is the target of a rule and the headers it depends on.
// The zero Record (empty Source) denotes a malformed rule.
type Record struct {
	Source string   // Cleaned target path, forward slashes
	Deps   []string // Sorted, deduplicated header paths
}

// Valid reports whether the record came from a well-formed rule.
func (r Record) Valid() bool { return r.Source != "" }

// Parse parses one rule, possibly continued over several lines.
//
// Continuations ("\" + newline) are joined, backslash separators become
// forward slashes and the text is split on the first colon. A rule without
// a colon yields the zero Record.
func Parse(text string) Record {
	text = strings.ReplaceAll(text, "\\\r\n", "")
	text = strings.ReplaceAll(text, "\\\n", "")
	text = strings.ReplaceAll(text, "\\", "/")

	target, prereqs, ok := strings.Cut(text, ":")
	if !ok {
		return Record{}
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return Record{}
	}

	seen := make(map[string]bool)
	var deps []string
	for _, f := range strings.Fields(prereqs) {
		dep := cleanPath(f)
		if !IsHeader(dep) || seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}
	slices.Sort(deps)

	return Record{Source: cleanPath(target), Deps: deps}
}

// ParseFile reads and parses a rule file.
func ParseFile(name string) (Record, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Record{}, fmt.Errorf("read rule %s: %w", name, err)
	}
	return Parse(string(data)), nil
}

// IsHeader reports whether p has an extension in [HeaderExts].
func IsHeader(p string) bool {
	return slices.Contains(HeaderExts, path.Ext(p))
}

func cleanPath(p string) string {
	return path.Clean(strings.TrimSpace(p))
}
