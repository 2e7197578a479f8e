package harness

import "github.com/roach88/shelf/internal/book"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Trace has one line per load and step, in execution order.
	Trace []string

	// Failures lists the expectations that did not hold.
	Failures []string

	// Books is a snapshot of the catalog after the last step.
	Books []*book.Book
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []string{},
		Failures: []string{},
	}
}

// AddFailure records a failed expectation.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

// AddTrace appends a trace line.
func (r *Result) AddTrace(line string) {
	r.Trace = append(r.Trace, line)
}
