package slogutil

import (
	"io"
	"log/slog"
)

// Options describe where and how a command logs.
type Options struct {
	// Level is the configured level name, used when no CLI flag is given
	Level  string
	Format string

	// File also receives the logs when set, rotated past MaxSize
	File       string
	MaxSize    string
	MaxBackups int
}

// LoggerFactory builds the logger of a command. CLI flags take
// precedence over the configured level.
type LoggerFactory struct {
	opts     Options
	cliLevel *slog.Level
	closers  []io.Closer
}

// NewLoggerFactory creates a factory. cliLevel is nil when neither -v nor
// -q was given.
func NewLoggerFactory(opts Options, cliLevel *slog.Level) *LoggerFactory {
	return &LoggerFactory{opts: opts, cliLevel: cliLevel}
}

// Level returns the effective level.
func (f *LoggerFactory) Level() slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	if f.opts.Level != "" {
		return LevelFromString(f.opts.Level)
	}
	return slog.LevelWarn
}

// Logger returns a logger writing to w and, when configured, to the log
// file. A log file that cannot be opened is reported through the returned
// logger and otherwise ignored.
func (f *LoggerFactory) Logger(w io.Writer) *slog.Logger {
	level := f.Level()
	console := newFormatHandler(w, level, f.opts.Format)
	if f.opts.File == "" {
		return slog.New(console)
	}

	file, closer, err := f.openFile(level)
	if err != nil {
		logger := slog.New(console)
		logger.Warn("cannot open log file", "path", f.opts.File, "error", err)
		return logger
	}
	f.closers = append(f.closers, closer)
	return slog.New(NewTeeHandler(console, file))
}

func (f *LoggerFactory) openFile(level slog.Level) (slog.Handler, io.Closer, error) {
	rf, err := OpenRotatingFile(f.opts.File, ParseSize(f.opts.MaxSize), f.opts.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	return NewHandler(rf, &slog.HandlerOptions{Level: level}), rf, nil
}

// Close closes the log files opened by Logger.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
