// Package diag defines the shared diagnostic type the parser and the
// semantic analyzer accumulate into instead of returning Go errors.
package diag

import "fmt"

// Diagnostic is one accumulated parse or semantic complaint, carrying
// enough position information to reproduce the reference message format.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Line %d, col %d: %s", d.Line, d.Column, d.Message)
}

// List is an ordered collection of Diagnostics. A nil or empty List means
// the stage that produced it succeeded.
type List []Diagnostic

// Add appends a new diagnostic at the given position.
func (l *List) Add(line, column int, format string, args ...any) {
	*l = append(*l, Diagnostic{Line: line, Column: column, Message: fmt.Sprintf(format, args...)})
}

// Ok reports whether the list is empty.
func (l List) Ok() bool {
	return len(l) == 0
}
