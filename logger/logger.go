package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// EnvLogLevel is the environment variable holding the log level
	EnvLogLevel string = "VOTECOUNT_LOG_LEVEL"

	// EnvLogFormatJSON switches to json output when not empty
	EnvLogFormatJSON string = "VOTECOUNT_LOG_FORMAT_JSON"
)

// levels maps VOTECOUNT_LOG_LEVEL values to zerolog levels.
// Unknown values fall back to info
var levels = map[string]zerolog.Level{
	"panic": zerolog.PanicLevel,
	"fatal": zerolog.FatalLevel,
	"error": zerolog.ErrorLevel,
	"warn":  zerolog.WarnLevel,
	"info":  zerolog.InfoLevel,
	"debug": zerolog.DebugLevel,
	"trace": zerolog.TraceLevel,
}

// NewLogger instantiate zerolog configuration writing to stderr
// so that tabulation results printed on stdout stay readable
func NewLogger() *zerolog.Logger {
	return New(os.Stderr)
}

// New instantiate zerolog configuration writing to w
func New(w io.Writer) *zerolog.Logger {
	level, ok := levels[strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if strings.TrimSpace(os.Getenv(EnvLogFormatJSON)) == "" {
		output := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
		output.FormatLevel = func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %s |", i))
		}
		output.FormatMessage = func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return &logger
}
