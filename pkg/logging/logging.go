// lootfilter/pkg/logging/logging.go

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var Logger zerolog.Logger

// LogFile is the destination used when the "file" output is selected.
var LogFile = "lootfilter.log"

func init() {
	logLevel := zerolog.InfoLevel // Default log level
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if level, err := zerolog.ParseLevel(envLevel); err == nil {
			logLevel = level
		}
	}

	zerolog.SetGlobalLevel(logLevel)
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// ConfigureLogger sets the global level and routes both Logger and the zerolog
// global logger to the requested output: "console", "json" or "file".
func ConfigureLogger(logLevel, logOutput string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer
	switch logOutput {
	case "console":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "3:04PM"}
	case "json":
		out = os.Stderr
	case "file":
		file, err := os.OpenFile(LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = file
	default:
		return fmt.Errorf("invalid log output option: %q", logOutput)
	}

	Logger = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = Logger
	return nil
}
