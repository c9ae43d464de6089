package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// RowParser turns raw file content into data rows plus the column order as
// it appeared in the file. Go maps do not preserve key order, so the order
// travels alongside the rows.
type RowParser interface {
	CanParse(filename string) bool
	Parse(content []byte) (rows []dataset.DataRow, columns []string, err error)
}

// Source is the result of parsing one input file.
type Source struct {
	Name    string
	Rows    []dataset.DataRow
	Columns []string
}

var registry []RowParser

// Register adds a parser implementation to the registry.
func Register(p RowParser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and returns the parsed rows.
// The source name is the file's base name without extension.
func ParseFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	for _, p := range registry {
		if p.CanParse(path) {
			rows, cols, err := p.Parse(data)
			if err != nil {
				return nil, err
			}
			return &Source{Name: name, Rows: rows, Columns: cols}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, base)
}

func init() {
	Register(csvParser{})
	Register(jsonParser{})
}

// ErrUnsupported indicates an input format outside the .csv/.json contract.
var ErrUnsupported = errors.New("unsupported input format")
