// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelCritical is one step above error, matching the CRITICAL level accepted on the command line.
const LevelCritical = slog.LevelError + 4

// ErrUnknownLevel is returned when a log level name cannot be parsed.
var ErrUnknownLevel = errors.New("unknown log level")

type loggerKey struct{}

// LevelVar is shared by the default loggers so the level can be changed after start up.
var LevelVar = &slog.LevelVar{}

// DefaultLogger writes coloured, human-readable lines to stdout.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level:       LevelVar,
	ReplaceAttr: replaceLevelNames,
},
	WithDestinationWriter(os.Stdout),
	WithAutoColour(),
))

// JSONLogger writes one JSON object per line to stdout.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level:       LevelVar,
	ReplaceAttr: replaceLevelNames,
}))

func init() {
	LevelVar.Set(levelFromEnv())
}

// New returns a copy of ctx carrying logger. A nil logger stores DefaultLogger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// NewForWriter returns a copy of ctx carrying a pretty logger without colour that writes to w.
// It shares LevelVar with the default loggers.
func NewForWriter(ctx context.Context, w io.Writer) context.Context {
	return New(ctx, slog.New(NewPrettyHandler(&slog.HandlerOptions{
		Level:       LevelVar,
		ReplaceAttr: replaceLevelNames,
	}, WithDestinationWriter(w))))
}

// Logger returns the logger stored in ctx, or DefaultLogger.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Debug logs at debug level using the logger in ctx.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).DebugContext(ctx, msg, args...)
}

// Info logs at info level using the logger in ctx.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).InfoContext(ctx, msg, args...)
}

// Warn logs at warn level using the logger in ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).WarnContext(ctx, msg, args...)
}

// Error logs at error level using the logger in ctx.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).ErrorContext(ctx, msg, args...)
}

// ParseLevel converts DEBUG, INFO, WARN/WARNING, ERROR or CRITICAL (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// EnvVarName returns the name of the log level variable for the running executable.
func EnvVarName() string {
	exe, _ := os.Executable()
	exe = strings.TrimSuffix(filepath.Base(exe), ".exe")

	return strings.ToUpper(exe) + "_LOG_LEVEL"
}

// levelFromEnv falls back to info so that child process output is visible by default.
func levelFromEnv() slog.Level {
	lvl, err := ParseLevel(os.Getenv(EnvVarName()))
	if err != nil {
		return slog.LevelInfo
	}

	return lvl
}

func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}

	return a
}
