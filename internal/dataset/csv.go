package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses comma-separated text with a header row. The whole stream is
// buffered so that binary content can be rejected before any parsing.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("read upload: %w", err)}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, &ParseError{Name: name, Err: ErrBinary}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Name: name, Line: 1, Err: ErrNoHeader}
		}
		return nil, csvError(name, err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, csvError(name, err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Name: name,
				Line: line,
				Err:  fmt.Errorf("%w: expected %d, saw %d", ErrTooManyFields, len(header), len(rec)),
			}
		}
		records = append(records, rec)
	}
	return FromRecords(name, header, records)
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Name: name, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Name: name, Err: err}
}
