// =============================================================================
// SVG Badge Generator - File Manager Utility
// =============================================================================
//
// This module provides the file management helpers for the generator:
//   - Output directory preparation with an overwrite guard
//   - Deterministic page file naming
//
// OVERWRITE GUARD:
//   Badge runs are often re-done against the same directory after fixing a
//   typo in the table. Writing into a non-empty directory silently mixes old
//   and new pages, so it is refused unless the caller opts in (--force).
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureOutputDir makes sure dir exists and may be written into.
//
// A missing directory is created (including parents). An existing, non-empty
// directory is an error unless force is set.
func EnsureOutputDir(dir string, force bool) error {
	info, err := os.Stat(dir)

	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		if force {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read output directory: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("output directory %s is not empty (use --force to write anyway)", dir)
		}
		return nil

	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("failed to stat output directory: %w", err)
	}
}

// =============================================================================
// FILE NAMING
// =============================================================================

// PageFileName returns the SVG file name for a 1-based page number.
func PageFileName(page int) string {
	return fmt.Sprintf("page_%d.svg", page)
}

// PDFSibling returns the PDF path matching an SVG path.
func PDFSibling(svgPath string) string {
	return strings.TrimSuffix(svgPath, ".svg") + ".pdf"
}
