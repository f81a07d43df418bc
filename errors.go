// Copyright (c) 2014 Alex Kalyvitis

package handlebars

import (
	"fmt"

	"github.com/quintans/faults"
)

// RenderError is the error value propagated from a failed render. Fields
// are enriched one-shot as the error bubbles through enclosing template
// frames: once line_no/column_no/template_name are set, outer frames never
// overwrite them.
type RenderError struct {
	Desc         string
	TemplateName string
	LineNo       int
	ColumnNo     int
	hasLine      bool
	cause        error
}

// NewRenderError builds a bare RenderError with no location information.
func NewRenderError(desc string) *RenderError {
	return &RenderError{Desc: desc}
}

// NewRenderErrorf is the formatted counterpart of NewRenderError.
func NewRenderErrorf(format string, args ...interface{}) *RenderError {
	return &RenderError{Desc: fmt.Sprintf(format, args...)}
}

// WrapRenderError wraps a lower-level failure (I/O, filesystem, YAML
// decode) as a RenderError, preserving the original error for Unwrap via
// faults so callers can still inspect the underlying cause.
func WrapRenderError(err error, desc string) *RenderError {
	if err == nil {
		return nil
	}
	return &RenderError{Desc: desc, cause: faults.Wrap(err)}
}

func (e *RenderError) Error() string {
	if e.hasLine {
		name := e.TemplateName
		if name == "" {
			name = "Unnamed template"
		}
		return fmt.Sprintf("Error rendering %q line %d, col %d: %s", name, e.LineNo, e.ColumnNo, e.Desc)
	}
	return e.Desc
}

func (e *RenderError) Unwrap() error { return e.cause }

// enrich fills TemplateName/LineNo/ColumnNo from an enclosing frame only if
// they are not already set (one-shot enrichment).
func (e *RenderError) enrich(templateName string, line, col int) {
	if !e.hasLine {
		e.LineNo = line
		e.ColumnNo = col
		e.hasLine = true
	}
	if e.TemplateName == "" {
		e.TemplateName = templateName
	}
}

// asRenderError coerces any error returned by a child render step into a
// *RenderError so the enclosing frame can enrich it; errors that already
// satisfy the type pass through unchanged.
func asRenderError(err error) *RenderError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RenderError); ok {
		return re
	}
	return &RenderError{Desc: err.Error(), cause: faults.Wrap(err)}
}
