package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/catalog"
)

// Harness runs scenario steps against one catalog file.
type Harness struct {
	path   string
	store  *catalog.Store
	logger *slog.Logger
	result *Result
}

// Run executes scenario against a catalog file inside dir and returns the
// result. An error means the scenario could not be set up; failed
// expectations are reported in the result instead.
//
// Execution flow:
// 1. Write the seed (if any) to dir/catalog.json
// 2. Open the store and check the load status
// 3. Execute steps, checking each expect clause
// 4. Compare the final catalog
func Run(dir string, scenario *Scenario) (*Result, error) {
	path := filepath.Join(dir, "catalog.json")
	if scenario.Seed != nil {
		if err := os.WriteFile(path, []byte(*scenario.Seed), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write seed: %w", err)
		}
	}

	h := &Harness{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in scenarios
		result: NewResult(),
	}

	status := h.open()
	h.result.AddTrace(fmt.Sprintf("load: %s (%d books)", status, h.store.Len()))
	if scenario.Load != "" && status.String() != scenario.Load {
		h.result.AddFailure(fmt.Sprintf("load: expected status %s, got %s", scenario.Load, status))
	}

	for i, step := range scenario.Steps {
		h.execute(i, step)
	}

	for _, b := range h.store.All() {
		h.result.Books = append(h.result.Books, b.Clone())
	}
	if scenario.Final != nil {
		checkFinal(h.result, scenario.Final)
	}
	return h.result, nil
}

// open loads a fresh store from the catalog file.
func (h *Harness) open() catalog.LoadStatus {
	h.store = catalog.New(h.path,
		catalog.WithLogger(h.logger),
		catalog.WithConsole(io.Discard),
	)
	return h.store.LoadStatus()
}

func (h *Harness) execute(i int, step Step) {
	label := stepLabel(step)
	var out outcome

	switch step.Op {
	case OpAdd:
		err := h.store.Add(book.New(step.Title, step.Author, step.ISBN))
		out = outcome{ok: err == nil, text: okText(err == nil)}

	case OpIssue:
		out = h.circulate(step.ISBN, (*book.Book).Issue, "issued", "already issued")

	case OpReturn:
		out = h.circulate(step.ISBN, (*book.Book).Return, "returned", "already available")

	case OpSearchTitle:
		found := h.store.SearchByTitle(step.Query)
		out = outcome{count: len(found), text: isbnList(found)}

	case OpSearchISBN:
		b, ok := h.store.SearchByISBN(step.ISBN)
		out = outcome{found: ok, text: "none"}
		if ok {
			out.text = b.String()
		}

	case OpList:
		books := h.store.All()
		out = outcome{count: len(books), text: fmt.Sprintf("%d books", len(books))}
		for _, b := range books {
			out.extra = append(out.extra, "  "+b.String())
		}

	case OpSave:
		err := h.store.Save()
		out = outcome{ok: err == nil, text: okText(err == nil)}

	case OpReload:
		status := h.open()
		out = outcome{status: status.String(), text: fmt.Sprintf("%s (%d books)", status, h.store.Len())}
	}

	h.result.AddTrace(label + ": " + out.text)
	for _, line := range out.extra {
		h.result.AddTrace(line)
	}
	if step.Expect != nil {
		for _, msg := range checkExpect(*step.Expect, out) {
			h.result.AddFailure(fmt.Sprintf("step %d (%s): %s", i, label, msg))
		}
	}
}

// circulate looks up isbn and applies transition, without saving.
func (h *Harness) circulate(isbn string, transition func(*book.Book) bool, done, refused string) outcome {
	b, ok := h.store.SearchByISBN(isbn)
	if !ok {
		return outcome{ok: false, text: "not found"}
	}
	if !transition(b) {
		return outcome{ok: false, text: refused}
	}
	return outcome{ok: true, text: done}
}

// stepLabel renders the op and its identifying argument.
func stepLabel(step Step) string {
	switch step.Op {
	case OpAdd, OpIssue, OpReturn, OpSearchISBN:
		return step.Op + " " + step.ISBN
	case OpSearchTitle:
		return fmt.Sprintf("%s %q", step.Op, step.Query)
	default:
		return step.Op
	}
}

func okText(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func isbnList(books []*book.Book) string {
	if len(books) == 0 {
		return "none"
	}
	isbns := make([]string, len(books))
	for i, b := range books {
		isbns[i] = b.ISBN
	}
	return strings.Join(isbns, ", ")
}
