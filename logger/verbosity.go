package logger

import "go.uber.org/zap/zapcore"

// Verbosity is the -v flag count. Each step unlocks more output categories
// (see output.go) as well as a lower zap level.
const (
	VerbosityUser  = 0 // results and errors
	VerbosityInfo  = 1 // -v: progress, plugin status
	VerbosityDebug = 2 // -vv: per-file events, timing, config
	VerbosityTrace = 3 // -vvv: event pipeline internals
	VerbosityAll   = 4 // -vvvv: printed file bodies
)

var verbosityLevels = [...]zapcore.Level{
	VerbosityUser:  zapcore.WarnLevel,
	VerbosityInfo:  zapcore.InfoLevel,
	VerbosityDebug: zapcore.DebugLevel,
	VerbosityTrace: zapcore.DebugLevel,
	VerbosityAll:   zapcore.DebugLevel,
}

// ClampVerbosity bounds a flag count to the known range
func ClampVerbosity(verbosity int) int {
	return max(VerbosityUser, min(verbosity, VerbosityAll))
}

// VerbosityToLevel maps a flag count to the zap level the CLI logger runs at.
// Trace and All share DebugLevel; they differ only in output categories.
func VerbosityToLevel(verbosity int) zapcore.Level {
	return verbosityLevels[ClampVerbosity(verbosity)]
}
