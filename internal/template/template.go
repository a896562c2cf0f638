// =============================================================================
// SVG Badge Generator - Template Module
// =============================================================================
//
// This module loads the SVG badge template and resolves its placeholders.
// A placeholder identifier is <prefix><column><slot>, e.g. PXTAG_name1 for
// the "name" column of the first badge slot. The highest slot index found in
// the template is the page capacity: how many attendees fit on one page.
//
// The template is kept as the raw markup it was read as. It is validated to
// be well-formed XML, but it is never rebuilt from a parsed tree: rendering
// substitutes placeholder identifiers directly in a fresh copy of the
// pristine markup, so every byte outside the placeholders survives unchanged
// (attributes, styling, sibling structure, even whitespace).
//
// =============================================================================

package template

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/badgetools/namer/internal/tableparser"
)

// =============================================================================
// TEMPLATE STRUCTURE
// =============================================================================

// Template is a parsed badge template: the pristine markup plus the
// discovered placeholder inventory. A Template is immutable; RenderPage
// works on copies.
type Template struct {
	// SourceFile is the path to the source template file.
	SourceFile string

	prefix   string
	content  string
	slots    map[string]map[int]bool // column -> set of slot indices
	capacity int
}

// =============================================================================
// ERRORS
// =============================================================================

// ParseError describes a template file that is not well-formed markup.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid SVG template %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoPlaceholdersError reports a template without a single placeholder for
// the configured prefix. This is a configuration error, not a silent no-op:
// a misspelled prefix would otherwise produce unmodified copies of the
// template without anyone noticing.
type NoPlaceholdersError struct {
	File   string
	Prefix string
}

func (e *NoPlaceholdersError) Error() string {
	return fmt.Sprintf("no placeholders with prefix %q found in template %s", e.Prefix, e.File)
}

// MissingColumnsError reports template placeholder columns that have no
// matching column in the attendee table. Those badge fields could never be
// filled, so the run is aborted.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("template placeholders have no matching table column: %s",
		strings.Join(e.Columns, ", "))
}

// =============================================================================
// LOADING
// =============================================================================

// identifierPattern matches the column and slot parts of a placeholder.
// Columns are letters and underscores; slots are 1-based decimal indices
// without leading zeros. A column name ending in digits cannot be used as a
// placeholder column, the digits would be read as the slot index.
const identifierPattern = `([A-Za-z_]+)([0-9]+)`

// Load reads and parses an SVG template file.
//
// The markup is checked for well-formedness, then scanned for placeholder
// identifiers with the given prefix. Fails with a *ParseError for malformed
// markup and a *NoPlaceholdersError when nothing matches the prefix.
func Load(path, prefix string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	if err := validateMarkup(raw); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	t := &Template{
		SourceFile: path,
		prefix:     prefix,
		content:    string(raw),
		slots:      make(map[string]map[int]bool),
	}
	t.discover()

	if len(t.slots) == 0 {
		return nil, &NoPlaceholdersError{File: path, Prefix: prefix}
	}

	return t, nil
}

// validateMarkup runs the markup through an XML token scan. The token stream
// itself is discarded; only well-formedness matters here.
func validateMarkup(raw []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// discover scans the raw markup for placeholder identifiers and records the
// slot inventory per column.
func (t *Template) discover() {
	re := regexp.MustCompile(regexp.QuoteMeta(t.prefix) + identifierPattern)

	for _, m := range re.FindAllStringSubmatch(t.content, -1) {
		column, digits := m[1], m[2]

		// Leading zeros would not round-trip through Identifier; treat such
		// text as ordinary content, not a placeholder.
		if len(digits) > 1 && digits[0] == '0' {
			continue
		}

		slot, err := strconv.Atoi(digits)
		if err != nil || slot < 1 {
			continue
		}

		set := t.slots[column]
		if set == nil {
			set = make(map[int]bool)
			t.slots[column] = set
		}
		set[slot] = true

		if slot > t.capacity {
			t.capacity = slot
		}
	}
}

// =============================================================================
// PLACEHOLDER RESOLUTION
// =============================================================================

// Identifier computes the placeholder identifier for a column and slot.
func Identifier(prefix, column string, slot int) string {
	return fmt.Sprintf("%s%s%d", prefix, column, slot)
}

// Capacity returns the page capacity: the highest slot index discovered in
// the template. The batch size is fixed by the template itself, it is not
// independently configurable.
func (t *Template) Capacity() int {
	return t.capacity
}

// Columns returns the discovered placeholder column names, sorted.
func (t *Template) Columns() []string {
	columns := make([]string, 0, len(t.slots))
	for column := range t.slots {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// Gaps returns, per column, the slot indices in 1..Capacity the template
// does not provide. A gap is legitimate (a decorative layout may show some
// fields only on some slots) but worth a warning, so callers get the list.
func (t *Template) Gaps() map[string][]int {
	gaps := make(map[string][]int)
	for column, set := range t.slots {
		var missing []int
		for slot := 1; slot <= t.capacity; slot++ {
			if !set[slot] {
				missing = append(missing, slot)
			}
		}
		if len(missing) > 0 {
			gaps[column] = missing
		}
	}
	return gaps
}

// BindColumns matches the template's placeholder columns against the table
// headers, case-insensitively.
//
// Returns the binding (template column -> table header) and the table
// headers that have no placeholder in the template. Those are skipped during
// substitution; a template may legitimately omit columns. The reverse case
// is fatal: a placeholder column absent from the table fails with a
// *MissingColumnsError, since that badge field could never be filled.
func (t *Template) BindColumns(headers []string) (map[string]string, []string, error) {
	byLower := make(map[string]string, len(headers))
	for _, h := range headers {
		byLower[strings.ToLower(h)] = h
	}

	binding := make(map[string]string, len(t.slots))
	var missing []string
	for column := range t.slots {
		header, ok := byLower[strings.ToLower(column)]
		if !ok {
			missing = append(missing, column)
			continue
		}
		binding[column] = header
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, &MissingColumnsError{Columns: missing}
	}

	bound := make(map[string]bool, len(binding))
	for _, header := range binding {
		bound[strings.ToLower(header)] = true
	}
	var unused []string
	for _, h := range headers {
		if !bound[strings.ToLower(h)] {
			unused = append(unused, h)
		}
	}

	return binding, unused, nil
}

// =============================================================================
// PAGE RENDERING
// =============================================================================

// RenderPage renders one badge page from a batch of up to Capacity records.
//
// Rendering starts from a fresh copy of the pristine markup, so nothing
// leaks between pages. For every slot, each placeholder identifier is
// replaced with the XML-escaped cell value of the record assigned to that
// slot. Slots beyond the batch are blanked: a short final batch produces
// badges with empty fields, never leftover placeholder text.
func (t *Template) RenderPage(batch []tableparser.Record, binding map[string]string) []byte {
	page := t.content

	// Highest slots first: the identifier for slot 1 is a prefix of the one
	// for slot 10, replacing in ascending order would corrupt the latter.
	for slot := t.capacity; slot >= 1; slot-- {
		var record tableparser.Record
		if slot-1 < len(batch) {
			record = batch[slot-1]
		}

		for column := range t.slots {
			value := ""
			if record != nil {
				value = escapeText(record[binding[column]])
			}
			page = strings.ReplaceAll(page, Identifier(t.prefix, column, slot), value)
		}
	}

	return []byte(page)
}

// textEscaper escapes the characters that would break a text node. Values
// land in text content, so quotes need no escaping.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
