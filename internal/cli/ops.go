package cli

import (
	"strings"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/catalog"
)

// OpError is a failed catalog operation, carrying its error code, the
// operator-facing message and the exit code.
type OpError struct {
	Code    string
	Message string
	Exit    int
	Kind    catalog.ErrorKind // empty for input errors
	Err     error
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Operator-facing messages shared by subcommands and the menu.
const (
	msgFieldsRequired   = "All fields are required."
	msgDuplicateISBN    = "A book with this ISBN already exists."
	msgNotFound         = "Book not found."
	msgAlreadyIssued    = "Book is already issued."
	msgAlreadyAvailable = "Book is already available."
	msgSaveFailed       = "Failed to save catalog."

	msgAdded    = "Book added successfully!"
	msgIssued   = "Book issued successfully!"
	msgReturned = "Book returned successfully!"
	msgEmpty    = "Library is empty."
	msgNoResult = "No books found."
)

// addBook validates the fields, rejects a duplicate ISBN, and adds the book.
func (s *session) addBook(title, author, isbn string) (*book.Book, error) {
	b := book.New(strings.TrimSpace(title), strings.TrimSpace(author), strings.TrimSpace(isbn))
	if err := b.Validate(); err != nil {
		return nil, &OpError{Code: ErrCodeFieldsRequired, Message: msgFieldsRequired, Exit: ExitFailure, Err: err}
	}
	if _, exists := s.store.SearchByISBN(b.ISBN); exists {
		return nil, &OpError{Code: ErrCodeDuplicateISBN, Message: msgDuplicateISBN, Exit: ExitFailure}
	}
	if err := s.store.Add(b); err != nil {
		return nil, &OpError{Code: ErrCodeWriteFailed, Message: msgSaveFailed, Exit: ExitCommandError, Kind: catalog.StorageUnavailable, Err: err}
	}
	s.logger.Info("book added via cli", "title", b.Title, "isbn", b.ISBN)
	return b, nil
}

// issueBook issues the book with isbn and saves the catalog.
func (s *session) issueBook(isbn string) (*book.Book, error) {
	b, ok := s.store.SearchByISBN(strings.TrimSpace(isbn))
	if !ok {
		return nil, &OpError{Code: ErrCodeNotFound, Message: msgNotFound, Exit: ExitFailure, Kind: catalog.NotFound}
	}
	if !b.Issue() {
		return b, &OpError{Code: ErrCodeAlreadyIssued, Message: msgAlreadyIssued, Exit: ExitFailure, Kind: catalog.InvalidStateTransition}
	}
	if err := s.store.Save(); err != nil {
		return b, &OpError{Code: ErrCodeWriteFailed, Message: msgSaveFailed, Exit: ExitCommandError, Kind: catalog.StorageUnavailable, Err: err}
	}
	s.logger.Info("book issued via cli", "isbn", b.ISBN)
	return b, nil
}

// returnBook returns the book with isbn and saves the catalog.
func (s *session) returnBook(isbn string) (*book.Book, error) {
	b, ok := s.store.SearchByISBN(strings.TrimSpace(isbn))
	if !ok {
		return nil, &OpError{Code: ErrCodeNotFound, Message: msgNotFound, Exit: ExitFailure, Kind: catalog.NotFound}
	}
	if !b.Return() {
		return b, &OpError{Code: ErrCodeAlreadyAvailable, Message: msgAlreadyAvailable, Exit: ExitFailure, Kind: catalog.InvalidStateTransition}
	}
	if err := s.store.Save(); err != nil {
		return b, &OpError{Code: ErrCodeWriteFailed, Message: msgSaveFailed, Exit: ExitCommandError, Kind: catalog.StorageUnavailable, Err: err}
	}
	s.logger.Info("book returned via cli", "isbn", b.ISBN)
	return b, nil
}

// renderBooks renders one book per line.
func renderBooks(books []*book.Book) string {
	lines := make([]string, len(books))
	for i, b := range books {
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// nonNil keeps JSON output an array when there are no books.
func nonNil(books []*book.Book) []*book.Book {
	if books == nil {
		return []*book.Book{}
	}
	return books
}
