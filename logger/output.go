package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: summary, errors with hints
//	1 (-v)      - + Progress, plugin and parser registration
//	2 (-vv)     - + Per-file start/end, timing, config loaded
//	3 (-vvv)    - + Event pipeline internals
//	4 (-vvvv)   - + Printed file bodies

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Generation summary
	OutputErrors                        // Errors with hints and resolution steps

	// Level 1 (-v) - Informational
	OutputProgress     // Progress indicators (e.g., "12/40 files")
	OutputPluginStatus // Plugin and parser registration

	// Level 2 (-vv) - Detailed
	OutputFileEvents // Per-file start/end
	OutputTiming     // Operation timing
	OutputConfig     // Config values loaded/applied

	// Level 3 (-vvv) - Debug
	OutputEventFlow // Event emission internals

	// Level 4 (-vvvv) - Full dump
	OutputDataDump // Printed file contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress:     VerbosityInfo,
	OutputPluginStatus: VerbosityInfo,

	OutputFileEvents: VerbosityDebug,
	OutputTiming:     VerbosityDebug,
	OutputConfig:     VerbosityDebug,

	OutputEventFlow: VerbosityTrace,

	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputProgress:     "progress",
	OutputPluginStatus: "plugin-status",
	OutputFileEvents:   "file-events",
	OutputTiming:       "timing",
	OutputConfig:       "config",
	OutputEventFlow:    "event-flow",
	OutputDataDump:     "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
