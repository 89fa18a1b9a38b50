package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ijm11/becas-extractor/pkg/document"
)

// LoadFile reads one announcement text file into a document.
func (e *Extractor) LoadFile(path string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return document.New(string(data), filepath.Base(path))
}

// LoadDirectory reads every .txt file under dir in name order. A file whose
// academic year cannot be determined is skipped with a logged error; the rest
// of the batch proceeds.
func (e *Extractor) LoadDirectory(dir string) ([]document.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]document.Document, 0, len(names))
	for _, name := range names {
		doc, err := e.LoadFile(filepath.Join(dir, name))
		if err != nil {
			e.logger.Error("skipping document", "file", name, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
