// Package export copies the catalog into a SQLite database for ad-hoc
// querying. The JSON catalog file stays the source of truth; the table is
// rebuilt from scratch on every export.
package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/shelf/internal/book"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	position INTEGER PRIMARY KEY,
	isbn     TEXT NOT NULL,
	title    TEXT NOT NULL,
	author   TEXT NOT NULL,
	issued   INTEGER NOT NULL CHECK (issued IN (0, 1))
);
CREATE INDEX IF NOT EXISTS idx_books_isbn ON books(isbn);
`

// Write replaces the books table in the database at dbPath with books,
// keeping catalog order in the position column. It returns the number of
// rows written.
func Write(ctx context.Context, dbPath string, books []*book.Book) (int, error) {
	db, err := open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin export: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return 0, fmt.Errorf("clear books: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (position, isbn, title, author, issued)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err := stmt.ExecContext(ctx, i, b.ISBN, b.Title, b.Author, b.Issued); err != nil {
			return 0, fmt.Errorf("insert book %q: %w", b.ISBN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit export: %w", err)
	}
	return len(books), nil
}

// Read returns the exported books in position order.
func Read(ctx context.Context, dbPath string) ([]*book.Book, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT isbn, title, author, issued
		FROM books
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []*book.Book
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Issued); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// open opens or creates the database and applies pragmas and schema.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}
