package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoHeader indicates the input has no header row.
	ErrNoHeader = errors.New("no header row")
	// ErrBinary indicates the input is not text (invalid UTF-8 or NUL bytes).
	ErrBinary = errors.New("content is not UTF-8 delimited text")
	// ErrTooManyFields indicates a data row wider than the header.
	ErrTooManyFields = errors.New("row has more fields than the header")
	// ErrUnsupportedFormat indicates a file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// ParseError reports an upload that could not be turned into a Table.
type ParseError struct {
	Name string // file name as uploaded
	Line int    // 1-based input line, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Name != "" {
		b.WriteString(" ")
		b.WriteString(e.Name)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// SelectionError reports a column name that is invalid for the current Table
// or for the view it was requested for.
type SelectionError struct {
	Column string
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
}

func noSuchColumn(name string) *SelectionError {
	return &SelectionError{Column: name, Reason: "no such column"}
}

func wrongKind(name string, want Kind) *SelectionError {
	return &SelectionError{Column: name, Reason: fmt.Sprintf("not a %s column", want)}
}
