// Copyright 2024 TableKit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil holds the process-wide zap logger. Library packages log
// through the package-level functions; the binary decides the sink via
// Setup.
package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	Level string `toml:"level"`
	// Format is "console" or "json".
	Format string `toml:"format"`
	// Filename enables file output with rotation when non-empty,
	// otherwise logs go to stderr.
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

var globalLogger atomic.Value // *zap.Logger

func init() {
	globalLogger.Store(newLogger(LogConfig{Level: "info", Format: "console"}))
}

// Setup replaces the global logger according to cfg.
func Setup(cfg LogConfig) {
	globalLogger.Store(newLogger(cfg))
}

func GetGlobalLogger() *zap.Logger {
	return globalLogger.Load().(*zap.Logger)
}

func newLogger(cfg LogConfig) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetGlobalLogger().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	GetGlobalLogger().Fatal(msg, fields...)
}

func Debugf(format string, args ...any) {
	GetGlobalLogger().Sugar().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	GetGlobalLogger().Sugar().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	GetGlobalLogger().Sugar().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	GetGlobalLogger().Sugar().Errorf(format, args...)
}
