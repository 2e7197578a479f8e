package book

import (
	"fmt"
	"sort"
)

// Catalog object keys.
const (
	KeyTitle  = "title"
	KeyAuthor = "author"
	KeyISBN   = "isbn"
	KeyIssued = "issued"
)

// DecodeError reports a mapping that does not describe a Book.
type DecodeError struct {
	Field  string // offending key, empty when the value itself is wrong
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode book: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("decode book: %s", e.Reason)
}

// FromMap builds a Book from its mapping form.
//
// title, author and isbn must be strings and issued must be a bool.
// Missing keys, wrong types and unknown keys are all rejected.
func FromMap(m map[string]any) (*Book, error) {
	title, err := stringField(m, KeyTitle)
	if err != nil {
		return nil, err
	}
	author, err := stringField(m, KeyAuthor)
	if err != nil {
		return nil, err
	}
	isbn, err := stringField(m, KeyISBN)
	if err != nil {
		return nil, err
	}

	raw, ok := m[KeyIssued]
	if !ok {
		return nil, &DecodeError{Field: KeyIssued, Reason: "missing"}
	}
	issued, ok := raw.(bool)
	if !ok {
		return nil, &DecodeError{Field: KeyIssued, Reason: fmt.Sprintf("expected bool, got %s", typeName(raw))}
	}

	if len(m) != 4 {
		var extra []string
		for k := range m {
			switch k {
			case KeyTitle, KeyAuthor, KeyISBN, KeyIssued:
			default:
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, &DecodeError{Field: extra[0], Reason: "unknown field"}
	}

	return &Book{Title: title, Author: author, ISBN: isbn, Issued: issued}, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", &DecodeError{Field: key, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &DecodeError{Field: key, Reason: fmt.Sprintf("expected string, got %s", typeName(raw))}
	}
	return s, nil
}

// typeName names JSON-ish types the way a reader of the catalog file sees them.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
