// Package book defines the catalog record and its issue/return state machine.
package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Field validation errors returned by Validate.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrAuthorRequired = errors.New("author is required")
	ErrISBNRequired   = errors.New("isbn is required")
)

// Status labels rendered by String and Status.
const (
	StatusAvailable = "Available"
	StatusIssued    = "Issued"
)

// Book is one catalog item.
//
// Issued cycles between false (Available) and true (Issued) through
// Issue and Return; it is the only field mutated after construction.
type Book struct {
	Title  string
	Author string
	ISBN   string
	Issued bool
}

// record fixes the on-disk key order: title, author, isbn, issued.
type record struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Issued bool   `json:"issued"`
}

// New creates an available book.
func New(title, author, isbn string) *Book {
	return &Book{Title: title, Author: author, ISBN: isbn}
}

// Issue marks the book as issued.
// Returns false without changing anything if it is already issued.
func (b *Book) Issue() bool {
	if b.Issued {
		return false
	}
	b.Issued = true
	return true
}

// Return marks the book as available again.
// Returns false without changing anything if it is already available.
func (b *Book) Return() bool {
	if !b.Issued {
		return false
	}
	b.Issued = false
	return true
}

// Status returns StatusIssued or StatusAvailable.
func (b *Book) Status() string {
	if b.Issued {
		return StatusIssued
	}
	return StatusAvailable
}

// Validate checks that title, author and isbn are non-blank.
func (b *Book) Validate() error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return ErrTitleRequired
	case strings.TrimSpace(b.Author) == "":
		return ErrAuthorRequired
	case strings.TrimSpace(b.ISBN) == "":
		return ErrISBNRequired
	}
	return nil
}

func (b *Book) String() string {
	return fmt.Sprintf("%s by %s (ISBN: %s) - %s", b.Title, b.Author, b.ISBN, b.Status())
}

// Clone returns an independent copy.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// ToMap returns the string-keyed form used by the catalog file.
func (b *Book) ToMap() map[string]any {
	return map[string]any{
		KeyTitle:  b.Title,
		KeyAuthor: b.Author,
		KeyISBN:   b.ISBN,
		KeyIssued: b.Issued,
	}
}

// MarshalJSON encodes the book with keys in catalog order.
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
		Issued: b.Issued,
	})
}

// UnmarshalJSON decodes a catalog object through FromMap, so the same
// strict rules apply to files and mappings.
func (b *Book) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return &DecodeError{Reason: fmt.Sprintf("expected object: %v", err)}
	}
	if m == nil {
		return &DecodeError{Reason: "expected object, got null"}
	}
	decoded, err := FromMap(m)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}
