package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/975125089bb/flutter-app/segment"
)

// Document is one input file.
type Document struct {
	Path string
	Name string
	// Gender is decided by the file name, or nil when the name says nothing.
	Gender *string
}

// Discover lists the documents in dir whose names match any pattern and are
// not in skip. Each file appears once, in pattern order then name order.
func Discover(dir string, patterns, skip []string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, dir)
	}

	seen := make(map[string]bool)
	var docs []Document
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidConfig, pattern, err)
		}
		slices.Sort(matches)
		for _, path := range matches {
			name := filepath.Base(path)
			if seen[path] || slices.Contains(skip, name) {
				continue
			}
			if fi, err := os.Stat(path); err != nil || fi.IsDir() {
				continue
			}
			seen[path] = true
			docs = append(docs, Document{
				Path:   path,
				Name:   name,
				Gender: segment.GenderFromFilename(name),
			})
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s (patterns %v)", ErrNoDocuments, dir, patterns)
	}
	return docs, nil
}

// ReadDocument returns the text of doc. Content that is not UTF-8 text is
// rejected with ErrNotText.
func ReadDocument(doc Document) (string, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", err
	}
	if !isText(mimetype.Detect(data)) || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, doc.Name)
	}
	return string(data), nil
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
