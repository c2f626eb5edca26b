package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/xinjiayu/rxlite"
	"github.com/xinjiayu/rxlite/rxtest"
	"github.com/xinjiayu/rxlite/training"
)

// DrillOptions holds flags for the drill command.
type DrillOptions struct {
	Timeout time.Duration
	List    bool
}

// DrillResult is the JSON form of one drill run.
type DrillResult struct {
	Name     string       `json:"name"`
	Events   []TraceEvent `json:"events"`
	TimedOut bool         `json:"timed_out"`
}

// NewDrillCommand creates the drill command.
func NewDrillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrillOptions{}

	cmd := &cobra.Command{
		Use:   "drill <name>",
		Short: "Run a training drill on the wall clock",
		Long: `Subscribe to a zero-argument training drill on a real-time scheduler
and print every signal it emits. Drills that never terminate are disposed
when --timeout expires.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return listDrills(rootOpts, cmd)
			}
			return runDrill(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 2*time.Second, "dispose the drill after this long")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list the drill names")

	return cmd
}

func listDrills(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	names := training.NewCreating(nil).DrillNames()

	if formatter.IsJSON() {
		return formatter.JSON(names)
	}
	for _, name := range names {
		formatter.Text("%s", name)
	}
	return nil
}

func runDrill(rootOpts *RootOptions, opts *DrillOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := formatter.Logger()
	slog.SetDefault(logger)

	scheduler := rxlite.NewRealScheduler(rxlite.WithLogger(logger))
	defer scheduler.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	rec := rxtest.NewUntimedRecorder()
	err := training.NewCreating(scheduler).Lookup(name).Log(name).BlockingSubscribe(ctx, rec.Observer())
	terminated := !errors.Is(err, context.DeadlineExceeded)
	if !terminated {
		logger.Debug("drill disposed after timeout", "drill", name, "timeout", opts.Timeout)
	}

	var fatal error
	if err := rec.Err(); err != nil && training.IsFatal(err) {
		fatal = WrapExitError(ExitFailure, fmt.Sprintf("drill %q", name), err)
	}

	if formatter.IsJSON() {
		if fatal != nil {
			_ = formatter.JSONError(fatal)
			return fatal
		}
		return formatter.JSON(DrillResult{
			Name:     name,
			Events:   traceEvents(rec.Events(), false),
			TimedOut: !terminated,
		})
	}

	for _, ev := range rec.Events() {
		formatter.Text("%s", describe(ev))
	}
	if !terminated {
		formatter.Text("timed out after %s", opts.Timeout)
	}
	return fatal
}

// describe formats an event without its timestamp.
func describe(ev rxtest.Event) string {
	switch ev.Kind {
	case rxlite.SignalNext:
		return fmt.Sprintf("next %v", ev.Value)
	case rxlite.SignalError:
		if errors.Is(ev.Err, training.ErrExpected) {
			return "error (expected) " + ev.Err.Error()
		}
		return "error " + ev.Err.Error()
	default:
		return ev.Kind.String()
	}
}
