package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a sugared console logger, active only under --verbose.
// Silent by construction otherwise: a demo binary has no business logging
// by default, the decoder it wraps never does either.
func newLogger(verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if !verbose {
		level = zapcore.FatalLevel + 1 // above Fatal: nothing logs
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stderr)), level)
	return zap.New(core).Sugar()
}
