package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/shelf/internal/book"
)

// SearchByTitle returns every book whose title contains q, ignoring case.
// Results keep catalog order; an empty q matches everything.
func (s *Store) SearchByTitle(q string) []*book.Book {
	// cases.Caser is stateful, so take a fresh one per search.
	folder := cases.Fold()
	needle := folder.String(norm.NFC.String(q))

	var results []*book.Book
	for _, b := range s.books {
		if strings.Contains(folder.String(norm.NFC.String(b.Title)), needle) {
			results = append(results, b)
		}
	}
	s.logger.Info("searched by title", "query", q, "matches", len(results))
	return results
}

// SearchByISBN returns the first book whose ISBN equals isbn exactly.
// A miss returns (nil, false).
func (s *Store) SearchByISBN(isbn string) (*book.Book, bool) {
	var found *book.Book
	for _, b := range s.books {
		if b.ISBN == isbn {
			found = b
			break
		}
	}
	s.logger.Info("searched by isbn", "isbn", isbn, "found", found != nil)
	return found, found != nil
}
