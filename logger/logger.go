package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger scoped to one component
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

var (
	// Default is the process-wide root logger
	Default *Logger
)

// Init configures the root logger from LOG_LEVEL / BOOKS_ENVIRONMENT
func Init() {
	InitWithWriter(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

// InitWithWriter configures the root logger to write to out
func InitWithWriter(out io.Writer) {
	level := getLogLevel()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	Default = &Logger{logger: zerolog.New(out).With().Timestamp().Logger()}

	Default.Debug().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// getLogLevel returns the log level from environment variable
func getLogLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("BOOKS_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Nop returns a logger that discards every event
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Info logs a formatted message on the root logger
func Info(format string, v ...interface{}) {
	root().Info().Msgf(format, v...)
}

// Warn logs a formatted warning on the root logger
func Warn(format string, v ...interface{}) {
	root().Warn().Msgf(format, v...)
}

// LogError logs err with the component that produced it
func LogError(component string, err error, format string, v ...interface{}) {
	root().Error().
		Str("component", component).
		Err(err).
		Msg(fmt.Sprintf(format, v...))
}

// ForCrawler creates a logger for the catalog extractor
func ForCrawler() *Logger {
	return forComponent("crawler")
}

// ForNormalizer creates a logger for the normalizer
func ForNormalizer() *Logger {
	return forComponent("normalizer")
}

// ForWarehouse creates a logger for the warehouse loader and reader
func ForWarehouse() *Logger {
	return forComponent("warehouse")
}

// ForDashboard creates a logger for the dashboard server
func ForDashboard() *Logger {
	return forComponent("dashboard")
}

// ForPipeline creates a logger for the pipeline runner
func ForPipeline() *Logger {
	return forComponent("pipeline")
}

// ForPublisher creates a logger for the publisher
func ForPublisher() *Logger {
	return forComponent("publisher")
}

// ForCache creates a logger for the cache
func ForCache() *Logger {
	return forComponent("cache")
}

func forComponent(name string) *Logger {
	return root().WithField("component", name)
}

func root() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}
