// Command incgraph renders C/C++ header dependency graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/incgraph/internal/cli"
	incerrors "github.com/matzehuels/incgraph/pkg/errors"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1   // a run failed
	exitSetup     = 2   // configuration or build database unusable
	exitInterrupt = 130 // SIGINT, as shells report it
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	cancel()
	os.Exit(report(os.Stderr, err))
}

// report prints err for the user and returns the process exit code.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "interrupted")
		return exitInterrupt
	}
	fmt.Fprintln(w, "error:", incerrors.UserMessage(err))
	if incerrors.IsFatal(err) {
		return exitSetup
	}
	return exitFailure
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every file and compiler invocation")

	// --verbose is parsed with the subcommand's flags, so the level is set
	// before config loading logs anything.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
