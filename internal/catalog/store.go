package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/shelf/internal/book"
)

// Store owns the ordered list of books and the file that mirrors it.
//
// Store is not safe for concurrent use. The file is assumed to be owned
// by this process for the lifetime of the Store.
type Store struct {
	path    string
	books   []*book.Book
	logger  *slog.Logger
	console io.Writer

	status  LoadStatus
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the audit sink. Default: records are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithConsole sets where operator-facing warnings are written.
// Default: io.Discard.
func WithConsole(w io.Writer) Option {
	return func(s *Store) {
		s.console = w
	}
}

// New creates a Store for path and loads it.
//
// New never fails: missing, corrupted or unreadable files all end with an
// empty catalog. Use LoadStatus and LoadErr to see what happened.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  slog.New(slog.DiscardHandler),
		console: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// LoadStatus reports how the catalog was obtained at construction.
func (s *Store) LoadStatus() LoadStatus {
	return s.status
}

// LoadErr returns the failure behind LoadRepaired or LoadReset, or nil.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Len returns the number of books.
func (s *Store) Len() int {
	return len(s.books)
}

// All returns the books in insertion order.
// The returned books are the live records; mutate them through Issue and
// Return, then call Save.
func (s *Store) All() []*book.Book {
	return s.books
}

// Add appends b and saves the catalog.
//
// ISBN uniqueness is the caller's job. If saving fails, b stays in
// memory and the save error is returned.
func (s *Store) Add(b *book.Book) error {
	s.books = append(s.books, b)
	err := s.Save()
	s.logger.Info("book added", "title", b.Title, "isbn", b.ISBN)
	return err
}

// Save writes the whole catalog to disk, creating parent directories.
//
// Failures are reported on the console and in the audit log and returned
// as a *StorageError; in-memory state is never touched.
func (s *Store) Save() error {
	err := s.write()
	if err != nil {
		fmt.Fprintf(s.console, "Error saving catalog %s: %v\n", s.path, err)
		s.logger.Error("failed to save catalog", "path", s.path, "error", err)
		return &StorageError{Kind: StorageUnavailable, Op: "save", Path: s.path, Err: err}
	}
	s.logger.Info("catalog saved", "path", s.path, "books", len(s.books))
	return nil
}

func (s *Store) write() error {
	data, err := encodeCatalog(s.books)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("catalog file not found, creating a new one", "path", s.path)
		s.books = nil
		s.status = LoadCreated
		_ = s.Save()
		return
	}
	if err != nil {
		s.reset(&StorageError{Kind: StorageUnavailable, Op: "load", Path: s.path, Err: err})
		return
	}

	books, err := decodeCatalog(data)
	if err != nil {
		var storageErr *StorageError
		if errors.As(err, &storageErr) && storageErr.Kind == StorageCorrupted {
			storageErr.Path = s.path
			s.repair(storageErr)
			return
		}
		s.reset(&StorageError{Kind: StorageUnavailable, Op: "load", Path: s.path, Err: err})
		return
	}

	s.books = books
	s.status = LoadOK
	s.logger.Info("catalog loaded", "path", s.path, "books", len(books))
}

// repair discards an unparseable file and overwrites it with an empty catalog.
func (s *Store) repair(err *StorageError) {
	fmt.Fprintf(s.console, "Catalog %s is corrupted. Resetting file.\n", s.path)
	s.logger.Error("catalog file corrupted, creating a new one", "path", s.path, "error", err.Err)
	s.books = nil
	s.status = LoadRepaired
	s.loadErr = err
	_ = s.Save()
}

// reset starts from an empty catalog but leaves the file as it is.
func (s *Store) reset(err *StorageError) {
	fmt.Fprintf(s.console, "Unexpected error loading catalog %s.\n", s.path)
	s.logger.Error("unexpected load error", "path", s.path, "error", err.Err)
	s.books = nil
	s.status = LoadReset
	s.loadErr = err
}

// encodeCatalog renders books as a 4-space indented JSON array with no
// trailing newline. An empty catalog is "[]".
func encodeCatalog(books []*book.Book) ([]byte, error) {
	if books == nil {
		books = []*book.Book{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(books); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeCatalog parses a catalog file.
//
// Syntax errors come back as a StorageCorrupted *StorageError. Valid JSON
// of the wrong shape comes back as a *book.DecodeError (wrapped with the
// record index when it concerns one record).
func decodeCatalog(data []byte) ([]*book.Book, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &StorageError{Kind: StorageCorrupted, Op: "load", Err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &book.DecodeError{Reason: fmt.Sprintf("catalog must be an array, got %T", raw)}
	}

	books := make([]*book.Book, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: %w", i, &book.DecodeError{Reason: fmt.Sprintf("expected object, got %T", item)})
		}
		b, err := book.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		books = append(books, b)
	}
	return books, nil
}
