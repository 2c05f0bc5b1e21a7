/*
Package logging provides the process-wide structured logger.

PURPOSE:
  Components log through a sugared zap logger. Lines keep a "[Component]"
  prefix so the console output reads the same in development and
  production, while the JSON encoder adds level and timestamp fields.

LEVELS:
  debug, info (default), warn, error

USAGE:
  log, err := logging.New("info")
  logging.L = log                       // process default
  log.Infof("[Registry] Loaded %s", snap.Edition.Label())

  logging.Nop()                         // tests
*/
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// L is the process default. It discards everything until the CLI installs
// a configured logger.
var L = Nop()

// New builds a production logger at the given level.
func New(level string) (*Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Or returns l, or the process default when l is nil.
func Or(l *Logger) *Logger {
	if l == nil {
		return L
	}
	return l
}
