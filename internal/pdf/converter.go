// =============================================================================
// SVG Badge Generator - PDF Converter Module
// =============================================================================
//
// This module wraps the external SVG-to-PDF converter behind a small
// capability interface. PDF output is a best-effort enhancement: when no
// converter is installed the run proceeds with SVG only, and a failing or
// hanging conversion is logged and skipped, never fatal.
//
// DISCOVERY:
//   Resolution happens once at startup, in this order:
//     1. An explicitly configured executable path
//     2. "inkscape" on the execution path
//     3. The well-known macOS Inkscape installation location
//     4. "rsvg-convert" on the execution path (librsvg)
//
// =============================================================================

package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// =============================================================================
// CONVERTER INTERFACE
// =============================================================================

// Converter converts a single SVG file to a PDF file by invoking an external
// vector-graphics tool. Convert blocks until the subprocess exits or the
// context deadline is exceeded.
type Converter interface {
	// Name identifies the resolved converter, for logging.
	Name() string

	// Convert renders svgPath into pdfPath.
	Convert(ctx context.Context, svgPath, pdfPath string) error
}

// inkscapeWellKnown lists installation locations checked after the PATH
// lookup fails.
var inkscapeWellKnown = []string{
	"/Applications/Inkscape.app/Contents/MacOS/inkscape",
}

// =============================================================================
// DISCOVERY
// =============================================================================

// Discover resolves a converter once at startup. Returns nil when none is
// available; the caller reports that once and skips PDF output for the run.
func Discover(explicitPath string) Converter {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil
		}
		return classify(explicitPath)
	}

	if path, err := exec.LookPath("inkscape"); err == nil {
		return &inkscape{path: path}
	}

	for _, path := range inkscapeWellKnown {
		if _, err := os.Stat(path); err == nil {
			return &inkscape{path: path}
		}
	}

	if path, err := exec.LookPath("rsvg-convert"); err == nil {
		return &rsvg{path: path}
	}

	return nil
}

// classify picks the invocation style for an explicitly configured
// executable based on its name.
func classify(path string) Converter {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "rsvg") {
		return &rsvg{path: path}
	}
	return &inkscape{path: path}
}

// =============================================================================
// INKSCAPE
// =============================================================================

// inkscape invokes Inkscape's command line export.
type inkscape struct {
	path string
}

func (c *inkscape) Name() string { return c.path }

func (c *inkscape) Convert(ctx context.Context, svgPath, pdfPath string) error {
	cmd := exec.CommandContext(ctx, c.path, svgPath, "--export-filename", pdfPath)
	return run(ctx, cmd)
}

// =============================================================================
// RSVG-CONVERT
// =============================================================================

// rsvg invokes librsvg's rsvg-convert.
type rsvg struct {
	path string
}

func (c *rsvg) Name() string { return c.path }

func (c *rsvg) Convert(ctx context.Context, svgPath, pdfPath string) error {
	cmd := exec.CommandContext(ctx, c.path, "-f", "pdf", "-o", pdfPath, svgPath)
	return run(ctx, cmd)
}

// run executes the prepared command, mapping a context deadline onto a
// distinguishable error.
func run(ctx context.Context, cmd *exec.Cmd) error {
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("converter timed out: %w", ctx.Err())
		}
		return fmt.Errorf("converter failed: %w", err)
	}

	return nil
}
