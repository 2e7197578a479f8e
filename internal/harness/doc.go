// Package harness runs catalog scenarios described in YAML and records
// a line-per-step trace for golden comparison.
//
// # Scenario Format
//
//	name: dune-circulation
//	description: "What this scenario checks"
//	seed: |            # optional raw catalog file content; omit for a missing file
//	  [...]
//	load: created      # optional expected load status: ok, created, repaired, reset
//	steps:
//	  - op: add
//	    title: Dune
//	    author: Frank Herbert
//	    isbn: "111"
//	  - op: issue
//	    isbn: "111"
//	    expect: { ok: true }
//	  - op: search_title
//	    query: dune
//	    expect: { count: 1 }
//	final:             # optional expected catalog after the last step
//	  - { title: Dune, author: Frank Herbert, isbn: "111", issued: true }
//
// # Operations
//
//   - add: Store.Add with title, author, isbn (expect ok)
//   - issue, return: look up isbn and transition the book (expect ok)
//   - search_title: Store.SearchByTitle with query (expect count)
//   - search_isbn: Store.SearchByISBN with isbn (expect found)
//   - list: every book in order (expect count)
//   - save: Store.Save (expect ok)
//   - reload: open a fresh Store on the same file (expect status)
//
// Issue and return do not save; a scenario that wants the transition on
// disk follows them with a save step, like a caller of the catalog would.
//
// # Golden Files
//
// RunWithGolden compares the trace with testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
