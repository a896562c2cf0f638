package tableparser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/badgetools/namer/internal/tableparser"
	. "github.com/smartystreets/goconvey/convey"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attendees.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	Convey("Given a well-formed tab-separated table", t, func() {
		path := writeTable(t, "name\taffiliation\nAda Lovelace\tAnalytical Engines\nGrace Hopper\tUS Navy\n")

		Convey("When parsing it", func() {
			table, err := tableparser.Parse(path, '\t')

			Convey("Then headers and records come back in file order", func() {
				So(err, ShouldBeNil)
				So(table.Headers, ShouldResemble, []string{"name", "affiliation"})
				So(table.Records, ShouldHaveLength, 2)
				So(table.Records[0]["name"], ShouldEqual, "Ada Lovelace")
				So(table.Records[1]["affiliation"], ShouldEqual, "US Navy")
			})
		})
	})

	Convey("Given a table with padded cells and empty rows", t, func() {
		path := writeTable(t, "name\taffiliation\t\n  Ada  \t AE \t\n\t\nGrace\tNavy\n")

		Convey("When parsing it", func() {
			table, err := tableparser.Parse(path, '\t')

			Convey("Then values are trimmed, trailing empty columns dropped and empty rows skipped", func() {
				So(err, ShouldBeNil)
				So(table.Headers, ShouldResemble, []string{"name", "affiliation"})
				So(table.Records, ShouldHaveLength, 2)
				So(table.Records[0]["name"], ShouldEqual, "Ada")
				So(table.Records[0]["affiliation"], ShouldEqual, "AE")
			})
		})
	})

	Convey("Given a data row with a mismatched field count", t, func() {
		path := writeTable(t, "name\taffiliation\nAda Lovelace\n")

		Convey("When parsing it", func() {
			_, err := tableparser.Parse(path, '\t')

			Convey("Then it fails with a ParseError naming the row", func() {
				var parseErr *tableparser.ParseError
				So(errors.As(err, &parseErr), ShouldBeTrue)
				So(parseErr.Row, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty file", t, func() {
		path := writeTable(t, "")

		Convey("When parsing it", func() {
			_, err := tableparser.Parse(path, '\t')

			Convey("Then it fails with a ParseError about the header row", func() {
				var parseErr *tableparser.ParseError
				So(errors.As(err, &parseErr), ShouldBeTrue)
				So(parseErr.Error(), ShouldContainSubstring, "header")
			})
		})
	})

	Convey("Given a header with an empty column between named ones", t, func() {
		path := writeTable(t, "name\t\taffiliation\nAda\tx\tAE\n")

		Convey("When parsing it", func() {
			_, err := tableparser.Parse(path, '\t')

			Convey("Then it fails with a ParseError", func() {
				var parseErr *tableparser.ParseError
				So(errors.As(err, &parseErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given a nonexistent path", t, func() {
		Convey("When parsing it", func() {
			_, err := tableparser.Parse(filepath.Join(t.TempDir(), "missing.tsv"), '\t')

			Convey("Then the underlying I/O error surfaces", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})

	Convey("Given a comma-delimited table", t, func() {
		path := writeTable(t, "name,affiliation\nAda,AE\n")

		Convey("When parsing with a comma delimiter", func() {
			table, err := tableparser.Parse(path, ',')

			Convey("Then it parses fine", func() {
				So(err, ShouldBeNil)
				So(table.Records[0]["affiliation"], ShouldEqual, "AE")
			})
		})
	})
}

func TestDelimiterRune(t *testing.T) {
	Convey("Given delimiter settings", t, func() {
		Convey("Aliases resolve to their rune", func() {
			for setting, want := range map[string]rune{
				"":          '\t',
				"tab":       '\t',
				"\\t":       '\t',
				",":         ',',
				"comma":     ',',
				"pipe":      '|',
				";":         ';',
				"semicolon": ';',
				"x":         'x',
			} {
				got, err := tableparser.DelimiterRune(setting)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("A multi-character delimiter is rejected", func() {
			_, err := tableparser.DelimiterRune("ab")
			So(err, ShouldNotBeNil)
		})
	})
}
