package compdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/observability"
)

// DefaultTimeout bounds a single compiler invocation.
const DefaultTimeout = 2 * time.Minute

// ExecFunc runs a task, writing the compiler's output to out.
type ExecFunc func(ctx context.Context, t Task, out io.Writer) error

// Result is the outcome of one task.
type Result struct {
	Task     Task
	Err      error
	Duration time.Duration
}

// Dispatcher runs tasks on a bounded worker pool.
type Dispatcher struct {
	Workers int           // Concurrent compilers; <= 0 means runtime.NumCPU()
	Timeout time.Duration // Per task; <= 0 means DefaultTimeout
	Exec    ExecFunc      // nil means ExecCommand
	Logger  *log.Logger
}

// NewDispatcher creates a dispatcher with the given limits. Zero values
// select the defaults.
func NewDispatcher(workers int, timeout time.Duration, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{Workers: workers, Timeout: timeout, Logger: logger}
}

// Run executes every task and returns one result per task, in task order.
// Task failures are recorded in their result and never stop other tasks.
// The returned error is non-nil only when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, tasks []Task) ([]Result, error) {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}

	results := make([]Result, len(tasks))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, t := range tasks {
		if ctx.Err() != nil {
			results[i] = Result{Task: t, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := d.runOne(ctx, t)
			results[i] = Result{Task: t, Err: err, Duration: time.Since(start)}
			observability.Compile().OnCompile(ctx, t.Source, results[i].Duration, err)
			if err != nil {
				logger.Warn("trace failed", "source", t.Source, "err", err)
			} else {
				logger.Debug("traced", "source", t.Source, "output", t.Output, "duration", results[i].Duration.Round(time.Millisecond))
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

// runOne leaves an existing trace untouched when ctx is already done.
func (d *Dispatcher) runOne(ctx context.Context, t Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	run := d.Exec
	if run == nil {
		run = ExecCommand
	}

	if err := os.MkdirAll(filepath.Dir(t.Output), 0o755); err != nil {
		return incerrors.Wrap(incerrors.ErrCodeCompile, err, "create output dir for %s", t.Output)
	}
	f, err := os.Create(t.Output)
	if err != nil {
		return incerrors.Wrap(incerrors.ErrCodeCompile, err, "create %s", t.Output)
	}
	defer f.Close()

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = run(taskCtx, t, f)
	if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
		return incerrors.New(incerrors.ErrCodeTimeout, "%s: compiler did not finish within %s", t.Source, timeout)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return incerrors.Wrap(incerrors.ErrCodeCompile, err, "%s", t.Source)
	}
	return nil
}

// ExecCommand runs a task with os/exec, sending stdout and stderr to out.
// Shell commands go through sh -c, or cmd /C on Windows.
func ExecCommand(ctx context.Context, t Task, out io.Writer) error {
	var cmd *exec.Cmd
	switch {
	case t.Shell != "" && runtime.GOOS == "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/C", t.Shell)
	case t.Shell != "":
		cmd = exec.CommandContext(ctx, "sh", "-c", t.Shell)
	case len(t.Args) > 0:
		cmd = exec.CommandContext(ctx, t.Args[0], t.Args[1:]...)
	default:
		return fmt.Errorf("%s: empty command", t.Source)
	}
	cmd.Dir = t.Dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
