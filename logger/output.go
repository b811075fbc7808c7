package logger

// Output controls what categories of console output are shown at each
// verbosity level, independently of log severity.
//
//	0 (default) - rendered tree, errors with hints
//	1 (-v)      - + commit/undo/redo notices, tree load/save
//	2 (-vv)     - + normalization summaries, config values
//	3 (-vvv)    - + full snapshot dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	OutputResults OutputCategory = iota // Rendered tree, command output
	OutputErrors                        // Rejected edits with hints

	OutputHistory // Commit, undo and redo notices
	OutputStorage // Tree load/save summaries

	OutputNormalize // Deactivation cascades
	OutputConfig    // Config values loaded/reloaded

	OutputDataDump // Full snapshot contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:   VerbosityUser,
	OutputErrors:    VerbosityUser,
	OutputHistory:   VerbosityInfo,
	OutputStorage:   VerbosityInfo,
	OutputNormalize: VerbosityDebug,
	OutputConfig:    VerbosityDebug,
	OutputDataDump:  VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:   "results",
	OutputErrors:    "errors",
	OutputHistory:   "history",
	OutputStorage:   "storage",
	OutputNormalize: "normalize",
	OutputConfig:    "config",
	OutputDataDump:  "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
