// Package diagnostic provides positioned error reporting for IR documents.
//
// Diagnostics carry a severity, an optional code and a source range. A
// DiagnosticList renders them with the offending source line and a caret,
// optionally with ANSI colors for terminals.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error stops the document from being rewritten.
	Error Severity = iota
	// Warning is a non-blocking issue.
	Warning
	// Note provides additional context for another diagnostic.
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Position represents a position in source code.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Range represents a range in source code.
type Range struct {
	Start Position
	End   Position
}

// Code identifies a class of diagnostic.
type Code string

const (
	CodeSyntax          Code = "E0001" // malformed IR text
	CodeVersion         Code = "E0002" // unsupported or malformed version directive
	CodeForm            Code = "E0003" // construct not valid in the requested form
	CodeUnsupportedStmt Code = "E0100" // statement kind the rewriter cannot enter
	CodeSubstitution    Code = "E0101" // malformed variable or replacement
	CodeSkippedStmt     Code = "W0100" // statement passed through without rewriting
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Range    Range
}

// Error returns a formatted error string.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)
}

// DiagnosticList collects diagnostics for one source document.
type DiagnosticList struct {
	diagnostics []Diagnostic
	lineIndex   *LineIndex
	source      string
	hasErrors   bool
}

// NewDiagnosticList creates a new diagnostic list for the given source.
func NewDiagnosticList(source string) *DiagnosticList {
	return &DiagnosticList{
		lineIndex: NewLineIndex(source),
		source:    source,
	}
}

// Add adds a diagnostic to the list.
func (dl *DiagnosticList) Add(d Diagnostic) {
	dl.diagnostics = append(dl.diagnostics, d)
	if d.Severity == Error {
		dl.hasErrors = true
	}
}

// AddError adds an error diagnostic at the given byte offset.
func (dl *DiagnosticList) AddError(offset int, code Code, message string) {
	dl.AddErrorRange(offset, offset+1, code, message)
}

// AddErrorRange adds an error diagnostic for a byte range.
func (dl *DiagnosticList) AddErrorRange(start, end int, code Code, message string) {
	dl.Add(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  message,
		Range:    dl.MakeRange(start, end),
	})
}

// AddWarning adds a warning diagnostic with no source location.
func (dl *DiagnosticList) AddWarning(code Code, message string) {
	dl.Add(Diagnostic{Severity: Warning, Code: code, Message: message})
}

// AddNote adds a note diagnostic with no source location.
func (dl *DiagnosticList) AddNote(message string) {
	dl.Add(Diagnostic{Severity: Note, Message: message})
}

// MakePosition converts a byte offset to a Position.
func (dl *DiagnosticList) MakePosition(offset int) Position {
	line, col := dl.lineIndex.ByteOffsetToLineColumn(offset)
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: col + 1,
	}
}

// MakeRange converts byte offsets to a Range.
func (dl *DiagnosticList) MakeRange(start, end int) Range {
	return Range{
		Start: dl.MakePosition(start),
		End:   dl.MakePosition(end),
	}
}

// HasErrors returns true if there are any error-level diagnostics.
func (dl *DiagnosticList) HasErrors() bool {
	return dl.hasErrors
}

// Diagnostics returns all collected diagnostics.
func (dl *DiagnosticList) Diagnostics() []Diagnostic {
	return dl.diagnostics
}

// Errors returns only error-level diagnostics.
func (dl *DiagnosticList) Errors() []Diagnostic {
	var errors []Diagnostic
	for _, d := range dl.diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	return errors
}

// Count returns the total number of diagnostics.
func (dl *DiagnosticList) Count() int {
	return len(dl.diagnostics)
}

// ----------------------------------------------------------------------------
// Formatting
// ----------------------------------------------------------------------------

// FormatOptions controls rendering.
type FormatOptions struct {
	// Filename prefixes each diagnostic header when set.
	Filename string
	// Color enables ANSI escape sequences.
	Color bool
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
)

func severityColor(s Severity) string {
	switch s {
	case Error:
		return ansiRed
	case Warning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

// FormatWith formats all diagnostics with the given options.
func (dl *DiagnosticList) FormatWith(opts FormatOptions) string {
	if len(dl.diagnostics) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := range dl.diagnostics {
		sb.WriteString(dl.FormatDiagnostic(&dl.diagnostics[i], opts))
	}
	return sb.String()
}

// FormatDiagnostic formats a single diagnostic with source context.
func (dl *DiagnosticList) FormatDiagnostic(d *Diagnostic, opts FormatOptions) string {
	var sb strings.Builder

	paint := func(color, s string) string {
		if !opts.Color {
			return s
		}
		return color + s + ansiReset
	}

	// Header
	if opts.Filename != "" {
		sb.WriteString(paint(ansiBold, opts.Filename))
		sb.WriteByte(':')
	}
	located := d.Range.Start.Line > 0
	if located {
		sb.WriteString(fmt.Sprintf("%d:%d: ", d.Range.Start.Line, d.Range.Start.Column))
	} else if opts.Filename != "" {
		sb.WriteByte(' ')
	}
	label := d.Severity.String()
	if d.Code != "" {
		label += "[" + string(d.Code) + "]"
	}
	sb.WriteString(paint(ansiBold+severityColor(d.Severity), label))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if !located {
		return sb.String()
	}

	// Source line and caret
	sourceLine := dl.lineIndex.Line(d.Range.Start.Line - 1)
	if sourceLine == "" {
		return sb.String()
	}
	sb.WriteString("    ")
	sb.WriteString(sourceLine)
	sb.WriteByte('\n')

	caret := "^"
	if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column > d.Range.Start.Column+1 {
		caret += strings.Repeat("~", d.Range.End.Column-d.Range.Start.Column-1)
	}
	sb.WriteString(strings.Repeat(" ", d.Range.Start.Column-1+4))
	sb.WriteString(paint(ansiGreen, caret))
	sb.WriteByte('\n')

	return sb.String()
}
