package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Reader decodes one on-disk format into a Table.
type Reader func(name string, r io.Reader) (*Table, error)

var readers = map[string]Reader{
	".csv":  ReadCSV,
	".xlsx": ReadXLSX,
}

// Supported reports whether a file name has an extension Load accepts.
func Supported(name string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Load selects a reader by extension. Names without an extension are read as CSV.
func Load(name string, r io.Reader) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ReadCSV(name, r)
	}
	rd, ok := readers[ext]
	if !ok {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)}
	}
	return rd(name, r)
}
