// Package diag wires the driver's stderr Warning:/Error: lines, -v verbose
// stats, and the -vv trace file, through a zap core the way the teacher's
// pack sets up structured logging.
package diag

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Diag is the driver's logger handle, built by New; the zero value has no
// logger and is not usable.
type Diag struct {
	log *zap.Logger
}

// New builds a Diag. verbose lowers the console level to Info; tracePath,
// if non-empty (the -vv flag), adds a rotating file core via lumberjack.
func New(verbose bool, tracePath string) *Diag {
	lvl := zapcore.WarnLevel
	if verbose {
		lvl = zapcore.InfoLevel
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		ConsoleSeparator: " ",
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), lvl),
	}
	if tracePath != "" {
		fileCfg := encCfg
		fileCfg.TimeKey = "time"
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		writer := &lumberjack.Logger{Filename: tracePath, MaxSize: 50, MaxBackups: 3, MaxAge: 7}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(fileCfg), zapcore.AddSync(writer), zapcore.DebugLevel))
	}

	return &Diag{log: zap.New(zapcore.NewTee(cores...))}
}

// Warning prints a "Warning: ..." diagnostic, per spec.md's stderr framing
// for recoverable issues (dropped extension, degenerate triangle count, ...).
func (d *Diag) Warning(msg string, fields ...zap.Field) {
	d.log.Warn("Warning: " + msg, fields...)
}

// Error prints an "Error: ..." diagnostic for failures the driver still
// reports before translating to an exit code.
func (d *Diag) Error(msg string, fields ...zap.Field) {
	d.log.Error("Error: " + msg, fields...)
}

// Verbose logs an -v info line (file sizes, triangle counts, stage timing).
func (d *Diag) Verbose(msg string, fields ...zap.Field) {
	d.log.Info(msg, fields...)
}

// Trace logs a -vv-only debug line.
func (d *Diag) Trace(msg string, fields ...zap.Field) {
	d.log.Debug(msg, fields...)
}

// Sync flushes buffered log entries; the driver calls this before exit.
func (d *Diag) Sync() {
	_ = d.log.Sync()
}
