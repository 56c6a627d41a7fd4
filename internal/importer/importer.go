// Package importer adds tasks from other tools' export formats to the task
// store.
package importer

import (
	"fmt"
	"io"
	"strings"

	"chroncli/internal/storage"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported int      // tasks added to the store
	Skipped  int      // entries that could not become tasks
	Errors   []string // one line per skipped entry
}

// Preview is the outcome of parsing, before anything is stored.
type Preview struct {
	Tasks   []storage.Task
	Skipped int
	Errors  []string
}

func (p *Preview) skip(format string, args ...any) {
	p.Skipped++
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Preview parses the reader without touching the store.
	Preview(r io.Reader) (*Preview, error)

	// Name returns the format name, e.g. "ics".
	Name() string
}

// Import parses r with imp and adds every resulting task to store in a
// single save.
func Import(imp Importer, r io.Reader, store *storage.Store) (*ImportResult, error) {
	p, err := imp.Preview(r)
	if err != nil {
		return nil, err
	}
	if len(p.Tasks) > 0 {
		if err := store.AddMany(p.Tasks); err != nil {
			return nil, fmt.Errorf("save imported tasks: %w", err)
		}
	}
	return &ImportResult{Imported: len(p.Tasks), Skipped: p.Skipped, Errors: p.Errors}, nil
}

// GetImporter returns the importer for format, or nil if there is none.
func GetImporter(format string) Importer {
	switch strings.ToLower(format) {
	case "ics", "ical":
		return &ICSImporter{}
	case "taskwarrior", "tw":
		return &TaskwarriorImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"ics", "taskwarrior"}
}
