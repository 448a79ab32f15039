package model

// TestStatus is the outcome of running one test cell through the host runner.
type TestStatus int

const (
	// Passed means the runner exited successfully.
	Passed TestStatus = iota
	// Failed means the runner reported failing tests.
	Failed
	// Errored means the module could not be built or the runner could not start.
	Errored
	// NoTests means the runner found nothing to run in the module.
	NoTests
)

func (s TestStatus) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case NoTests:
		return "no tests"
	default:
		return "errored"
	}
}

// RunResult records one test cell run.
type RunResult struct {
	Address CellAddress
	Status  TestStatus
	Output  string
	Err     error
}

// NotebookResult is the collection outcome of a single notebook file. Err is
// set when the notebook could not be loaded; CellErrors holds cells that
// failed to muggle.
type NotebookResult struct {
	Path       Path
	Tests      []CellAddress
	Items      []TestItem
	CellErrors map[int]error
	Err        error
}

// MagicReport lists the magic lines found in one cell. A report with a
// negative cell index describes a notebook that could not be loaded.
type MagicReport struct {
	Address CellAddress
	Class   CellClass
	Lines   []int
	Names   []string
	Err     error
}

// ExportEntry maps one exported module file back to its test cell.
type ExportEntry struct {
	File       Path   `json:"file"`
	Address    string `json:"address"`
	Notebook   Path   `json:"notebook"`
	Cell       int    `json:"cell"`
	LineOffset int    `json:"line_offset"`
	// NotebookRel is Notebook relative to the export directory, when it can
	// be expressed that way.
	NotebookRel Path `json:"notebook_rel,omitempty"`
	// SHA256 fingerprints the written module.
	SHA256 string `json:"sha256"`
}
