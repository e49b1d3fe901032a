package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Level is a zerolog level name. Unknown names fall back to info.
	Level string
	// Dir enables the rotating file sink when set.
	Dir string
	// File is the log file name inside Dir.
	File string
}

// Init sets the global level and installs a console sink on stderr plus,
// when opts.Dir is set, a rotating file sink.
func Init(opts Options) error {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	writers := []io.Writer{console}
	if opts.Dir != "" {
		fileWriter, err := rotatingFile(opts.Dir, opts.File)
		if err != nil {
			return err
		}
		writers = append(writers, fileWriter)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return nil
}

func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

func rotatingFile(dir, file string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("logging: create log directory %q: %w", dir, err)
	}
	if file == "" {
		file = "kanso.log"
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, file),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}, nil
}
