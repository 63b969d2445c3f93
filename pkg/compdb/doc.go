// Package compdb turns a compilation database into header-trace jobs.
//
// CMake writes compile_commands.json when configured with
// -DCMAKE_EXPORT_COMPILE_COMMANDS=ON. Each entry is rewritten to add the
// -H flag, which makes GCC and Clang print the header inclusion tree, and
// run with its output captured to a .dep file mirroring the source layout:
//
//	entries, err := compdb.Load(buildDir)
//	if err != nil {
//	    return err // fatal: nothing can be traced
//	}
//	tasks, err := compdb.Plan(entries, projectRoot, buildDir, outDir)
//	results, err := compdb.NewDispatcher(0, 0, logger).Run(ctx, tasks)
//
// The [Dispatcher] runs tasks on a bounded pool. Every task has its own
// timeout and a failing compiler never cancels the others.
package compdb
