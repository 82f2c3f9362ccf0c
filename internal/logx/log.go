package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Log is the shared logger used by the portal.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Configure sets the global level and output. Console output is meant for a
// terminal; on the device the JSON form goes to the journal.
func Configure(level string, console bool) {
	SetOutput(os.Stderr, console)
	zerolog.SetGlobalLevel(parseLevel(level))
}

// SetOutput replaces the writer behind Log.
func SetOutput(w io.Writer, console bool) {
	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	Log = zerolog.New(w).With().Timestamp().Logger()
}

// parseLevel accepts all, trace, debug, info, warn, warning, error, fatal
// and none. Anything else is info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "all", "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
