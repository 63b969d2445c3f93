// Package trace rebuilds include trees from compiler header traces.
//
// # Input Format
//
// GCC and Clang print one line per opened header when run with -H. The
// nesting level is encoded by a run of dots in front of the path:
//
//	. /usr/include/stdio.h
//	.. /usr/include/features.h
//	... /usr/include/sys/cdefs.h
//	. src/app.h
//	Multiple include guards may be useful for:
//	src/app.h
//
// The trailing "Multiple include guards" section is an unrelated
// diagnostic. [Parse] stops at its first line.
//
// # Reconstruction
//
// No line names its parent. The tree shape is carried only by line order:
// the compiler visits headers depth-first and pops back up when a subtree
// finishes. [Build] replays that walk with an explicit ancestor stack where
// position d-1 holds the most recent node seen at depth d. Depth may drop by
// any amount between two lines but can only grow by one.
//
//	entries, err := trace.ParseString(text)
//	if err != nil {
//	    return err
//	}
//	g, err := trace.Build(entries)
//	if errors.Is(err, trace.ErrNoRoot) {
//	    // malformed trace, skip this file
//	}
package trace
