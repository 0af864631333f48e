package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BookExtensions are the file extensions recognised as books, in lookup order.
var BookExtensions = []string{".yaml", ".yml", ".json"}

// ParseBook decodes a YAML or JSON book document.
func ParseBook(data []byte) (*Book, error) {
	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("decode book: %w", err)
	}
	return &book, nil
}

// LoadBookFile reads a book from disk.
func LoadBookFile(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	book, err := ParseBook(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return book, nil
}

// SaveBookFile writes a book as YAML, creating the parent directory.
func SaveBookFile(path string, book *Book) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(book)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BookID returns the id a book file is addressed by: its base name without extension.
func BookID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListBooks returns the ids of all book files in dir, sorted. A missing dir is empty.
func ListBooks(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	books := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !isBookFile(entry.Name()) {
			continue
		}
		id := BookID(entry.Name())
		if !seen[id] {
			seen[id] = true
			books = append(books, id)
		}
	}
	sort.Strings(books)
	return books, nil
}

// FindBookFile returns the path of the book with the given id in dir.
func FindBookFile(dir, id string) (string, bool) {
	for _, ext := range BookExtensions {
		path := filepath.Join(dir, id+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func isBookFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range BookExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
