// =============================================================================
// SVG Badge Generator - Generator Module
// =============================================================================
//
// This module contains the core generation pipeline. It orchestrates a full
// run, from table parsing to the written badge pages.
//
// GENERATION PIPELINE:
//   1. Load the SVG template and discover its placeholders
//   2. Parse the attendee table
//   3. Bind template columns to table headers
//   4. Prepare the output directory
//   5. Resolve the PDF converter (once, best-effort)
//   6. Partition attendees into pages of the template's capacity and render
//      each page from a fresh copy of the pristine template
//   7. Write the optional XLSX run manifest
//
// The pipeline is sequential and keeps no state across runs. The only data
// shared between pages is the immutable pristine template and the attendee
// list.
//
// =============================================================================

package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/badgetools/namer/internal/pdf"
	"github.com/badgetools/namer/internal/report"
	"github.com/badgetools/namer/internal/tableparser"
	"github.com/badgetools/namer/internal/template"
	"github.com/badgetools/namer/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// OPTIONS AND RESULT STRUCTURES
// =============================================================================

// Options configures a generation run.
type Options struct {
	// TemplatePath is the path to the SVG template file.
	TemplatePath string

	// TablePath is the path to the delimited attendee table.
	TablePath string

	// OutputDir is the directory the page files are written into.
	OutputDir string

	// TagPrefix is the placeholder prefix used in the template.
	TagPrefix string

	// Delimiter is the field delimiter of the attendee table.
	Delimiter rune

	// Force allows writing into a non-empty output directory.
	Force bool

	// PDF enables the best-effort PDF conversion step.
	PDF bool

	// ConverterPath optionally pins the converter executable.
	ConverterPath string

	// PDFTimeout bounds a single conversion; exceeding it skips that PDF.
	PDFTimeout time.Duration

	// Converter overrides converter discovery when non-nil. Used by tests;
	// production runs leave it nil and let Discover resolve one.
	Converter pdf.Converter

	// Report enables the XLSX run manifest.
	Report bool

	// ReportFile is the manifest file name inside the output directory.
	ReportFile string

	// Logger receives run diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result represents the outcome of a successful run.
type Result struct {
	// RunID uniquely identifies this run in logs and the manifest.
	RunID string

	// OutputDir is the directory the files were written into.
	OutputDir string

	// SVGFiles holds the page file paths in page order.
	SVGFiles []string

	// PDFFiles holds the successfully converted PDF paths.
	PDFFiles []string

	// ReportFile is the manifest path, empty when disabled or failed.
	ReportFile string

	// Stats contains run statistics.
	Stats Stats
}

// Stats contains statistics about the run.
type Stats struct {
	// Records is the number of attendee records read from the table.
	Records int

	// Capacity is the page capacity discovered in the template.
	Capacity int

	// Pages is the number of badge pages written: ceil(Records/Capacity).
	Pages int

	// PDFs is the number of PDFs successfully converted.
	PDFs int
}

// =============================================================================
// GENERATOR STRUCTURE
// =============================================================================

// Generator runs the badge generation pipeline for one template and table.
type Generator struct {
	opts Options
}

// New creates a new Generator.
func New(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PDFTimeout <= 0 {
		opts.PDFTimeout = time.Minute
	}
	return &Generator{opts: opts}
}

// =============================================================================
// MAIN PIPELINE
// =============================================================================

// Run executes the generation pipeline.
//
// Input errors (unreadable files, malformed table or template, zero
// placeholders, unbound template columns) abort the run before anything is
// written. Converter problems never abort: the affected PDF is skipped.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := g.opts.Logger.With("run_id", runID)

	// =========================================================================
	// STEP 1: LOAD TEMPLATE
	// =========================================================================

	tmpl, err := template.Load(g.opts.TemplatePath, g.opts.TagPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	logger.Info("template loaded",
		"file", g.opts.TemplatePath,
		"columns", tmpl.Columns(),
		"capacity", tmpl.Capacity())

	for column, slots := range tmpl.Gaps() {
		logger.Warn("placeholder column does not cover every slot; those fields stay blank",
			"column", column, "missing_slots", slots)
	}

	// =========================================================================
	// STEP 2: PARSE ATTENDEE TABLE
	// =========================================================================

	table, err := tableparser.Parse(g.opts.TablePath, g.opts.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}

	logger.Info("table parsed",
		"file", g.opts.TablePath,
		"records", len(table.Records),
		"columns", table.Headers)

	// =========================================================================
	// STEP 3: BIND TEMPLATE COLUMNS TO TABLE HEADERS
	// =========================================================================

	binding, unused, err := tmpl.BindColumns(table.Headers)
	if err != nil {
		return nil, err
	}
	if len(unused) > 0 {
		logger.Warn("table columns without a template placeholder are skipped",
			"columns", unused)
	}

	// =========================================================================
	// STEP 4: PREPARE OUTPUT DIRECTORY
	// =========================================================================

	if err := utils.EnsureOutputDir(g.opts.OutputDir, g.opts.Force); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 5: RESOLVE PDF CONVERTER
	// =========================================================================
	// Resolved once here, not per page; absence is reported once.

	converter := g.opts.Converter
	if converter == nil && g.opts.PDF {
		converter = pdf.Discover(g.opts.ConverterPath)
		if converter == nil {
			logger.Warn("no SVG-to-PDF converter found, producing SVG only")
		}
	}
	if converter != nil {
		logger.Info("PDF converter resolved", "converter", converter.Name())
	}

	// =========================================================================
	// STEP 6: RENDER AND WRITE PAGES
	// =========================================================================

	capacity := tmpl.Capacity()
	pages := (len(table.Records) + capacity - 1) / capacity

	if pages == 0 {
		logger.Warn("table contains no attendee records, nothing to generate")
	}

	result := &Result{
		RunID:     runID,
		OutputDir: g.opts.OutputDir,
		Stats: Stats{
			Records:  len(table.Records),
			Capacity: capacity,
			Pages:    pages,
		},
	}

	for page := 1; page <= pages; page++ {
		start := (page - 1) * capacity
		end := min(start+capacity, len(table.Records))
		batch := table.Records[start:end]

		content := tmpl.RenderPage(batch, binding)

		svgPath := filepath.Join(g.opts.OutputDir, utils.PageFileName(page))
		if err := os.WriteFile(svgPath, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", svgPath, err)
		}
		result.SVGFiles = append(result.SVGFiles, svgPath)

		logger.Info("page written", "page", page, "file", svgPath, "attendees", len(batch))

		if converter != nil {
			if pdfPath, ok := g.convertPage(ctx, converter, svgPath, logger); ok {
				result.PDFFiles = append(result.PDFFiles, pdfPath)
				result.Stats.PDFs++
			}
		}
	}

	// =========================================================================
	// STEP 7: WRITE RUN MANIFEST
	// =========================================================================

	if g.opts.Report && pages > 0 {
		reportPath := filepath.Join(g.opts.OutputDir, g.opts.ReportFile)
		if err := report.Write(reportPath, runID, table, capacity, result.SVGFiles); err != nil {
			logger.Error("failed to write run manifest", "file", reportPath, "error", err)
		} else {
			result.ReportFile = reportPath
			logger.Info("run manifest written", "file", reportPath)
		}
	}

	logger.Info("run complete",
		"pages", result.Stats.Pages,
		"pdfs", result.Stats.PDFs,
		"records", result.Stats.Records)

	return result, nil
}

// convertPage runs one best-effort PDF conversion under the configured
// bounded wait. Failures are logged, never propagated.
func (g *Generator) convertPage(ctx context.Context, converter pdf.Converter, svgPath string, logger *slog.Logger) (string, bool) {
	pdfPath := utils.PDFSibling(svgPath)

	cctx, cancel := context.WithTimeout(ctx, g.opts.PDFTimeout)
	defer cancel()

	if err := converter.Convert(cctx, svgPath, pdfPath); err != nil {
		logger.Error("PDF conversion failed, keeping SVG only",
			"file", svgPath, "error", err)
		return "", false
	}

	logger.Debug("PDF written", "file", pdfPath)
	return pdfPath, true
}
