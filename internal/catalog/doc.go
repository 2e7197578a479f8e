// Package catalog keeps the library's books in memory and mirrors them to a
// JSON file.
//
// # File format
//
// The catalog file is a UTF-8 JSON array, indented with four spaces, of
// objects with exactly the keys title, author, isbn and issued. Array order
// is insertion order.
//
// # Load repair
//
// A Store never fails to construct. Loading resolves to one LoadStatus:
//   - LoadCreated: the file did not exist; an empty catalog is written.
//   - LoadOK: the file decoded cleanly.
//   - LoadRepaired: the file was not valid JSON; it is overwritten with [].
//   - LoadReset: anything else went wrong (read error, valid JSON that is
//     not an array of books); the catalog starts empty and the file is left
//     untouched for manual recovery.
//
// # Saving
//
// Every mutation is followed by a full-file rewrite. Save failures are
// reported to the console, logged, and returned; in-memory state is kept.
package catalog
