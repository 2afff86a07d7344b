// Package logging initializes the process-wide logger and the per-solve
// logger the core's Solver Adapter writes branch-and-bound progress to
// (spec.md §4.6's log_path parameter), adapted from bbak-mcs-mcp's
// internal/logging dual-sink pattern.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init sets up the global logger: a colorized console writer when stderr is
// a terminal, plain otherwise. Verbose enables debug-level logging.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
}

// ForSolve returns the logger a single Solve call should write its
// model-size, branch-and-bound progress, and final-status lines to. When
// logPath is empty, solve-scoped logging goes to stderr only (the global
// logger); when set, it additionally fans out to a rotating file at
// logPath, per spec.md §4.6's "optional log_path".
func ForSolve(logPath string) zerolog.Logger {
	if logPath == "" {
		return log.Logger
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}), fileWriter)
	return zerolog.New(multi).With().Timestamp().Logger()
}
