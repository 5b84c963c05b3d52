package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single conversion when the caller's context
// carries no deadline of its own.
const DefaultTimeout = 90 * time.Second

// LibreOffice converts presentations to PDF through a headless soffice
// process. Each call works in its own temp directory and cleans up after
// itself; the zero value is not usable, use NewLibreOffice.
type LibreOffice struct {
	binary  string
	timeout time.Duration
}

// NewLibreOffice returns a PDF renderer that invokes the given soffice
// binary ("" means "soffice" on PATH). timeout <= 0 means DefaultTimeout.
func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LibreOffice{binary: binary, timeout: timeout}
}

// Convert writes the presentation to a temp file, runs the converter, and
// returns the produced PDF bytes. Process failure, a missing output file,
// or an empty output all surface as a *ConversionError.
func (l *LibreOffice) Convert(ctx context.Context, pptx []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "deckgen-render-")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := uuid.NewString()
	in := filepath.Join(dir, name+".pptx")
	if err := os.WriteFile(in, pptx, 0o600); err != nil {
		return nil, fmt.Errorf("render: writing input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.binary, "--headless", "--convert-to", "pdf", "--outdir", dir, in)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &ConversionError{Output: string(out), Err: err}
	}

	pdf, err := os.ReadFile(filepath.Join(dir, name+".pdf"))
	if err != nil {
		return nil, &ConversionError{Output: string(out), Err: fmt.Errorf("no output produced: %w", err)}
	}
	if len(pdf) == 0 {
		return nil, &ConversionError{Output: string(out), Err: fmt.Errorf("empty output produced")}
	}
	return pdf, nil
}
