package catalog

import (
	"fmt"
)

// ErrorKind categorizes catalog failures.
type ErrorKind string

const (
	// NotFound means an ISBN lookup matched nothing.
	NotFound ErrorKind = "NOT_FOUND"

	// InvalidStateTransition means issue on an issued book or return on an
	// available one.
	InvalidStateTransition ErrorKind = "INVALID_STATE_TRANSITION"

	// StorageCorrupted means the catalog file is not valid JSON.
	StorageCorrupted ErrorKind = "STORAGE_CORRUPTED"

	// StorageUnavailable covers every other read or write failure.
	StorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
)

// StorageError describes a failed load or save of the catalog file.
type StorageError struct {
	Kind ErrorKind
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// LoadStatus records how the catalog was obtained at construction.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadCreated
	LoadRepaired
	LoadReset
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadCreated:
		return "created"
	case LoadRepaired:
		return "repaired"
	case LoadReset:
		return "reset"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}
