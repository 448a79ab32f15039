package config

// Engine defaults such as the test marker, magic names, extensions and the
// runner command live in the domain package; DefaultConfig copies them.
const (
	// DefaultConfigFile is looked up in the working directory when --config is not given.
	DefaultConfigFile = ".ipynb2.yaml"
	// DefaultWorkers is the default number of notebooks loaded or run in parallel.
	DefaultWorkers = 4
	// DefaultExportDir is where export writes modules when no directory is given.
	DefaultExportDir = "ipynb2-modules"
	// RunnerEnv overrides the runner command, split on whitespace.
	RunnerEnv = "IPYNB2_RUNNER"
)
