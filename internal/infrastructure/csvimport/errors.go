package csvimport

import (
	"errors"
	"fmt"
)

// Common parse errors
var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when the CSV file has no data rows
	ErrNoDataRows = errors.New("CSV file contains no data rows")
)

// RowError describes a problem with one CSV row.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

// NewRowError creates a row error.
func NewRowError(line int, column, message string) RowError {
	return RowError{Line: line, Column: column, Message: message}
}
