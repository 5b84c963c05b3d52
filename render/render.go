// Package render converts generated presentations to other formats by
// invoking an external rendering process. The core generation pipeline
// never depends on this package; a Renderer is injected into whatever
// service layer wants the alternate output.
package render

import (
	"context"
	"fmt"
)

// Renderer converts a PPTX byte stream to another format. Implementations
// must honor ctx cancellation and return a *ConversionError (possibly
// wrapped) when the external process fails, so callers can tell "could not
// convert the document" apart from "could not build it".
type Renderer interface {
	Convert(ctx context.Context, pptx []byte) ([]byte, error)
}

// ConversionError reports a failed external conversion, carrying whatever
// the process wrote to its combined output.
type ConversionError struct {
	Output string // combined stdout/stderr of the process, may be empty
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("render: conversion failed: %v", e.Err)
	}
	return fmt.Sprintf("render: conversion failed: %v: %s", e.Err, e.Output)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
