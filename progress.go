package clipdoc

// Progress reports one completed task.
type Progress struct {
	Round     int
	Completed int
	Total     int
	URL       string
	Err       error
}

// ProgressFunc receives progress updates. It must not block.
type ProgressFunc func(Progress)

// Outcome is the final result for one input URL.
type Outcome struct {
	URL         string
	Result      *ExtractionResult
	Publication *Publication
	Err         error

	// Attempts is the number of rounds in which the URL was processed.
	Attempts int
}

// OK reports whether the URL was fully written.
func (o *Outcome) OK() bool {
	return o.Err == nil && o.Publication != nil
}
