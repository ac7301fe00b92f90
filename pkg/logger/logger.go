// Package logger wires zerolog for the commerce API. New builds a standalone
// logger; Init additionally pins the first one built as the process logger.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "commerce-api"

// Options controls how a logger is built.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or error.
	// Unrecognised values fall back to info.
	Level string
	// Pretty switches to colourised console output for local development.
	// Production keeps line-delimited JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// New builds a logger from opts without touching process state. Every entry
// carries a timestamp and the service name.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

var (
	mu      sync.Mutex
	process *zerolog.Logger
)

// Init builds the process logger. The first call wins; later calls return the
// logger the first call built, whatever options they pass.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if process == nil {
		l := New(opts)
		process = &l
	}
	return *process
}

// Get returns the process logger, falling back to default options when Init
// has not run.
func Get() zerolog.Logger {
	return Init(Options{})
}
