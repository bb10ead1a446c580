package combine

// Arguments holds the inputs of a single combine run.
type Arguments struct {
	ProjectPath string // Root directory to walk
	OutputPath  string // Output artifact, truncated at the start of the run
}

// Summary counts what a run did with the files it discovered.
type Summary struct {
	Written int // Files appended to the output
	Skipped int // Files rejected by a check or unreadable
}
