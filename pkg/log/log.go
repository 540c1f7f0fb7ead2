// Package log configures the global zerolog logger for the easyapply CLI.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up console logging at info level.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// SetVerbose enables debug logging.
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// SetQuiet disables all logging except errors.
func SetQuiet(quiet bool) {
	if quiet {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log.Logger = log.Output(w)
}

// InitWithFile adds a timestamped file sink under dir alongside the console
// writer, so every run keeps its own applyjobs log.
func InitWithFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}
	name := time.Now().Format("2006-01-02_15-04-05") + "_applyjobs.log"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = log.Output(zerolog.MultiLevelWriter(console, f))
	return nil
}
