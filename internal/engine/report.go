package engine

// MoveRecord describes one file relocation. Paths are workspace-relative.
type MoveRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RenameRecord describes one duplicate-suffix normalization.
type RenameRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DedupRecord describes one file removed because its content matched an
// earlier file with the same canonical name. Kept names the survivor.
type DedupRecord struct {
	From   string `json:"from"`
	Kept   string `json:"kept"`
	Reason string `json:"reason"`
}

// ErrorRecord describes one failed sub-operation. Failures never abort
// the run; they are collected here instead.
type ErrorRecord struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Summary holds per-record-type counts for quick display.
type Summary struct {
	Moved               int `json:"moved"`
	Renamed             int `json:"renamed"`
	Deduped             int `json:"deduped"`
	DeletedEmptyFolders int `json:"deletedEmptyFolders"`
	Skipped             int `json:"skipped"`
	Errors              int `json:"errors"`
}

// Report aggregates the effects of every pass of one reorganization run.
// It is created empty at invocation start, appended to by each pass, and
// returned once at the end.
type Report struct {
	Path                string         `json:"path"`
	Moved               []MoveRecord   `json:"moved"`
	Renamed             []RenameRecord `json:"renamed"`
	Deduped             []DedupRecord  `json:"deduped"`
	DeletedEmptyFolders []string       `json:"deletedEmptyFolders"`
	Skipped             []string       `json:"skipped"`
	Errors              []ErrorRecord  `json:"errors"`
	Summary             Summary        `json:"summary"`
}

// NewReport returns an empty report for the given workspace-relative
// path. Slices are non-nil so the JSON output always carries arrays.
func NewReport(path string) *Report {
	return &Report{
		Path:                path,
		Moved:               []MoveRecord{},
		Renamed:             []RenameRecord{},
		Deduped:             []DedupRecord{},
		DeletedEmptyFolders: []string{},
		Skipped:             []string{},
		Errors:              []ErrorRecord{},
	}
}

// addError records a per-entry failure against a workspace-relative path.
func (r *Report) addError(path string, err error) {
	r.Errors = append(r.Errors, ErrorRecord{Path: path, Message: err.Error()})
}

// finalize computes the summary counts from the collected records.
func (r *Report) finalize() {
	r.Summary = Summary{
		Moved:               len(r.Moved),
		Renamed:             len(r.Renamed),
		Deduped:             len(r.Deduped),
		DeletedEmptyFolders: len(r.DeletedEmptyFolders),
		Skipped:             len(r.Skipped),
		Errors:              len(r.Errors),
	}
}
