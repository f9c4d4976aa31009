// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; everything else receives a logger derived from
// Get or Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Field names shared by every Boxwise log line.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldGroupID   = "group_id"
	FieldUserID    = "user_id"
)

// Options configures Init. Level is one of trace, debug, info, warn, error
// and falls back to info. Pretty switches to console output for development.
// Output defaults to os.Stdout and Service to "boxwise".
type Options struct {
	Level   string
	Pretty  bool
	Output  io.Writer
	Service string
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the process logger. Later calls return the first logger
// unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		service := opts.Service
		if service == "" {
			service = "boxwise"
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str(FieldService, service).
			Logger()

		initialized = true
	})
	return instance
}

// Get returns the singleton logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Component returns a child logger tagged with the subsystem name, e.g.
// "http", "reminders" or "dispatcher".
func Component(name string) zerolog.Logger {
	return Get().With().Str(FieldComponent, name).Logger()
}

// WithActor tags l with the group and user a request acts for. Empty ids are
// left out.
func WithActor(l zerolog.Logger, groupID, userID string) zerolog.Logger {
	ctx := l.With()
	if groupID != "" {
		ctx = ctx.Str(FieldGroupID, groupID)
	}
	if userID != "" {
		ctx = ctx.Str(FieldUserID, userID)
	}
	return ctx.Logger()
}

// Reset tears down the singleton so that the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// parseLevel maps a level name to zerolog, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
