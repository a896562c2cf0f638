// =============================================================================
// SVG Badge Generator - Run Manifest Module
// =============================================================================
//
// This module writes the optional XLSX run manifest: one row per attendee,
// recording which page and slot the attendee landed on and which files were
// produced. Organizers hand this to the badge printing crew to find a badge
// again after the fact.
//
// MANIFEST LAYOUT (sheet "Badges"):
//   | Page | Slot | SVG File   | <table column 1> | <table column 2> | ...
//   | 1    | 1    | page_1.svg | Ada Lovelace     | Analytical Eng.  |
//   | 1    | 2    | page_1.svg | ...              | ...              |
//   | 2    | 1    | page_2.svg | ...              | ...              |
//
// The run id is stored in the workbook's document properties.
//
// =============================================================================

package report

import (
	"fmt"
	"path/filepath"

	"github.com/badgetools/namer/internal/tableparser"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the manifest worksheet.
const SheetName = "Badges"

// fixedColumns precede the table columns in every manifest row.
var fixedColumns = []string{"Page", "Slot", "SVG File"}

// Write creates the manifest workbook at path.
//
// capacity is the page capacity the records were batched with; svgFiles
// holds the page file names in page order (index 0 = page 1).
func Write(path, runID string, table *tableparser.Table, capacity int, svgFiles []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to set up manifest sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "namer run manifest",
		Identifier:  runID,
		Description: fmt.Sprintf("Badge assignment for %s", table.SourceFile),
	}); err != nil {
		return fmt.Errorf("failed to set manifest properties: %w", err)
	}

	// Header row: fixed columns, then the table columns in file order.
	header := append(append([]string{}, fixedColumns...), table.Headers...)
	for col, name := range header {
		if err := setCell(f, col+1, 1, name); err != nil {
			return err
		}
	}

	// One row per attendee.
	for i, record := range table.Records {
		row := i + 2
		page := i/capacity + 1
		slot := i%capacity + 1

		svgFile := ""
		if page-1 < len(svgFiles) {
			svgFile = filepath.Base(svgFiles[page-1])
		}

		values := []interface{}{page, slot, svgFile}
		for _, h := range table.Headers {
			values = append(values, record[h])
		}

		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// setCell writes one cell by 1-based coordinates.
func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address manifest cell: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to write manifest cell %s: %w", cell, err)
	}
	return nil
}
