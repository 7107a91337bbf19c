package switcher

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	maxVerbose = 2
	maxQuiet   = 3
)

// Verbosity is how many times -v and -q were passed on the command line
type Verbosity struct {
	Verbose int
	Quiet   int
}

// Add combines counts given at different levels of the command line
func (v Verbosity) Add(other Verbosity) Verbosity {
	return Verbosity{Verbose: v.Verbose + other.Verbose, Quiet: v.Quiet + other.Quiet}
}

// Validate rejects verbose and quiet being combined
func (v Verbosity) Validate() error {
	if v.Verbose > 0 && v.Quiet > 0 {
		return fmt.Errorf("--verbose and --quiet can't be used together")
	}
	return nil
}

// Silent is true when all logging is turned off
func (v Verbosity) Silent() bool {
	return v.Quiet >= maxQuiet
}

// Trace is true when per-device filter decisions should be logged
func (v Verbosity) Trace() bool {
	return v.Verbose >= maxVerbose
}

// Level maps the verbosity to a zap level
func (v Verbosity) Level() zapcore.Level {
	switch {
	case v.Verbose > 0:
		return zapcore.DebugLevel
	case v.Quiet == 1:
		return zapcore.WarnLevel
	case v.Quiet >= 2:
		return zapcore.ErrorLevel
	}

	return zapcore.InfoLevel
}

// NewLogger provides a logger writing to stderr at the level selected by v
func NewLogger(v Verbosity) (*zap.SugaredLogger, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	if v.Silent() {
		return zap.NewNop().Sugar(), nil
	}

	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(v.Level())
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}

	loggerConfig.DisableStacktrace = true
	loggerConfig.DisableCaller = v.Verbose == 0

	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("create zap logger: %w", err)
	}

	return logger.Sugar(), nil
}
