package harness

import (
	"fmt"

	"github.com/roach88/shelf/internal/book"
)

// outcome is what a step observed, in the terms an Expect can check.
type outcome struct {
	ok     bool
	found  bool
	count  int
	status string
	text   string   // trace summary
	extra  []string // additional trace lines
}

// checkExpect returns one message per expectation that did not hold.
func checkExpect(e Expect, out outcome) []string {
	var msgs []string
	if e.OK != nil && *e.OK != out.ok {
		msgs = append(msgs, fmt.Sprintf("expected ok=%t, got %t", *e.OK, out.ok))
	}
	if e.Found != nil && *e.Found != out.found {
		msgs = append(msgs, fmt.Sprintf("expected found=%t, got %t", *e.Found, out.found))
	}
	if e.Count != nil && *e.Count != out.count {
		msgs = append(msgs, fmt.Sprintf("expected count=%d, got %d", *e.Count, out.count))
	}
	if e.Status != "" && e.Status != out.status {
		msgs = append(msgs, fmt.Sprintf("expected status=%s, got %s", e.Status, out.status))
	}
	return msgs
}

// checkFinal compares the catalog after the last step with want.
func checkFinal(r *Result, want []BookRecord) {
	if len(r.Books) != len(want) {
		r.AddFailure(fmt.Sprintf("final: expected %d books, got %d", len(want), len(r.Books)))
		return
	}
	for i, w := range want {
		if got := recordOf(r.Books[i]); got != w {
			r.AddFailure(fmt.Sprintf("final[%d]: expected %+v, got %+v", i, w, got))
		}
	}
}

func recordOf(b *book.Book) BookRecord {
	return BookRecord{Title: b.Title, Author: b.Author, ISBN: b.ISBN, Issued: b.Issued}
}
