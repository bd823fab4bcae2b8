// Package logger holds the process-wide structured logger used by the
// processor and the lombokgo command.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It discards everything until Initialize
	// is called.
	Logger *zap.SugaredLogger
	// JSONOutput is set when Initialize selected JSON output.
	JSONOutput bool
)

// Field names shared by log statements across packages.
const (
	FieldHandler     = "handler"
	FieldElement     = "element"
	FieldPhase       = "phase"
	FieldFile        = "file"
	FieldDiagnostics = "diagnostics"
	FieldError       = "error"
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger with one writing to stderr at the
// given level, as JSON or as human-readable console lines.
func Initialize(jsonOutput bool, level zapcore.Level) error {
	JSONOutput = jsonOutput

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err := config.Build()
		if err != nil {
			return err
		}
		Logger = zapLogger.Sugar()
		return nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	Logger = zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			level,
		),
	).Sugar()
	return nil
}

// VerbosityToLevel maps the count of -v flags to a log level: none shows
// warnings, -v adds info and -vv adds debug output.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
