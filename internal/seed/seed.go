// Package seed ships the sample books collection.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"bookquery/internal/book"
)

//go:embed books.json
var booksJSON []byte

// Books returns the embedded sample collection.
func Books() ([]book.Book, error) {
	books, err := book.DecodeDocuments(booksJSON)
	if err != nil {
		return nil, fmt.Errorf("seed: embedded books: %w", err)
	}
	return books, nil
}

// Load reads books from path, or the embedded collection when path is empty.
func Load(path string) ([]book.Book, error) {
	if path == "" {
		return Books()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	books, err := book.DecodeDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return books, nil
}
