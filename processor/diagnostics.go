package processor

import (
	"fmt"
	"sync"
	"text/scanner"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSource is returned by Collector.Err when at least one error
// diagnostic was reported.
var ErrInvalidSource = errors.New("processing reported errors")

// Severity says whether a diagnostic fails processing.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("?%d?", int(s))
	}
}

// Diagnostic is an error or warning that has source position information
// associated with it. The position indicates the location in a source file
// of the annotation (or element) that caused it.
type Diagnostic struct {
	severity Severity
	err      error
	pos      scanner.Position
	handler  string
}

// Error implements the error interface. It includes position information in
// the returned message; warnings are prefixed with "warning: ".
func (d *Diagnostic) Error() string {
	msg := d.err.Error()
	if d.severity == SeverityWarning {
		msg = "warning: " + msg
	}
	if d.pos.Filename == "" {
		return fmt.Sprintf("%d:%d: %s", d.pos.Line, d.pos.Column, msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.pos.Filename, d.pos.Line, d.pos.Column, msg)
}

// Underlying returns the underlying error.
func (d *Diagnostic) Underlying() error {
	return d.err
}

// Unwrap makes the underlying error visible to errors.Is and errors.As.
func (d *Diagnostic) Unwrap() error {
	return d.err
}

// Pos returns the location in source where the diagnostic was reported.
func (d *Diagnostic) Pos() scanner.Position {
	return d.pos
}

func (d *Diagnostic) Severity() Severity {
	return d.severity
}

// Handler returns the name of the annotation whose handler reported the
// diagnostic, or "" if it was reported outside of a handler.
func (d *Diagnostic) Handler() string {
	return d.handler
}

// NewDiagnostic returns the given error as a diagnostic of the given severity
// at the given source location.
func NewDiagnostic(sev Severity, pos scanner.Position, err error) *Diagnostic {
	return &Diagnostic{severity: sev, pos: pos, err: err}
}

// Collector accumulates the diagnostics of one or more units. It is safe for
// concurrent use, so a single collector can serve units processed in
// parallel.
type Collector struct {
	// WarningsAsErrors makes Err fail when only warnings were reported.
	WarningsAsErrors bool

	mu       sync.Mutex
	diags    []*Diagnostic
	errCount int
}

// Report records d.
func (c *Collector) Report(d *Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
	if d.severity == SeverityError || c.WarningsAsErrors {
		c.errCount++
	}
}

// Diagnostics returns all reported diagnostics in report order.
func (c *Collector) Diagnostics() []*Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	diags := make([]*Diagnostic, len(c.diags))
	copy(diags, c.diags)
	return diags
}

// ErrorCount returns the number of diagnostics that fail processing.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errCount
}

// Err returns ErrInvalidSource if any diagnostic failed processing, nil
// otherwise.
func (c *Collector) Err() error {
	if c.ErrorCount() > 0 {
		return ErrInvalidSource
	}
	return nil
}
