// Package logger builds the zerolog loggers used across the client,
// the CLI and the MCP server.
//
// The default sink is stderr: the MCP stdio transport owns stdout, so
// log output must never be written there.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const logFilePermission = 0o664

// Build accumulates logger options before Make.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Log is a constructed logger together with the file it may own.
type Log struct {
	Logger  zerolog.Logger
	LogFile *os.File
}

// Close releases the log file when one was opened.
func (log *Log) Close() error {
	if log.LogFile == nil {
		return nil
	}
	return log.LogFile.Close()
}

func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

// ToWriter sends log output to w instead of stderr.
func (build *Build) ToWriter(w io.Writer) *Build {
	build.writer = w
	return build
}

// ToPath appends log output to the file at path, creating it when
// absent. Takes precedence over ToWriter.
func (build *Build) ToPath(path string) *Build {
	build.path = path
	return build
}

// WithLevel sets the minimum level.
func (build *Build) WithLevel(level zerolog.Level) *Build {
	build.level = level
	return build
}

// Make constructs the logger. When a path was given the caller owns
// closing Log.LogFile.
func (build *Build) Make() (*Log, error) {
	log := new(Log)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		file, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermission)
		if err != nil {
			return nil, err
		}
		log.LogFile = file
		writer = zerolog.SyncWriter(file)
	}
	log.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return log, nil
}
