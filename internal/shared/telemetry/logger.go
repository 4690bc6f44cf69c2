package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log level and output format.
type Config struct {
	Level  string
	Format string // json or pretty
}

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, zerolog.InfoLevel, false)
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init configures the process-wide logger.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	pretty := strings.EqualFold(strings.TrimSpace(cfg.Format), "pretty")

	mu.Lock()
	logger = newLogger(os.Stdout, level, pretty)
	mu.Unlock()
}

// SetOutput redirects log lines to w and returns a func restoring the previous logger.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	prev := logger
	logger = newLogger(w, prev.GetLevel(), false)
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	current().Info().Fields(fields).Msg(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	current().Warn().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	current().Error().Fields(fields).Msg(msg)
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func newLogger(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
