package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xinjiayu/rxlite"
	"github.com/xinjiayu/rxlite/rxtest"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A drill failed with a fatal error
	ExitCommandError = 2 // Bad arguments, unreadable or invalid scenario files
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON document written in json format.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// TraceEvent is one recorded signal in JSON output.
type TraceEvent struct {
	At    string      `json:"at,omitempty"`
	Kind  string      `json:"kind"`
	Value interface{} `json:"value,omitempty"`
	Error string      `json:"error,omitempty"`
}

func traceEvents(events []rxtest.Event, timed bool) []TraceEvent {
	out := make([]TraceEvent, 0, len(events))
	for _, ev := range events {
		te := TraceEvent{Kind: ev.Kind.String()}
		if timed {
			te.At = ev.At.String()
		}
		switch ev.Kind {
		case rxlite.SignalNext:
			te.Value = ev.Value
		case rxlite.SignalError:
			te.Error = ev.Err.Error()
		}
		out = append(out, te)
	}
	return out
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// JSON writes a successful response document.
func (f *OutputFormatter) JSON(data interface{}) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
}

// JSONError writes a failed response document.
func (f *OutputFormatter) JSONError(err error) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: err.Error()})
}

// Text writes one line of human-readable output.
func (f *OutputFormatter) Text(format string, args ...interface{}) {
	fmt.Fprintf(f.Writer, format+"\n", args...)
}

// IsJSON reports whether the json format was selected.
func (f *OutputFormatter) IsJSON() bool {
	return f.Format == "json"
}

// Logger builds the diagnostic logger. Lifecycle records are Debug level
// and only show up with --verbose.
func (f *OutputFormatter) Logger() *slog.Logger {
	level := slog.LevelInfo
	if f.Verbose {
		level = slog.LevelDebug
	}

	w := f.ErrWriter
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}
