package report_test

import (
	"path/filepath"
	"testing"

	"github.com/badgetools/namer/internal/report"
	"github.com/badgetools/namer/internal/tableparser"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	Convey("Given a parsed table batched with capacity 2", t, func() {
		table := &tableparser.Table{
			Headers:    []string{"name", "affiliation"},
			SourceFile: "attendees.tsv",
			Records: []tableparser.Record{
				{"name": "Ada Lovelace", "affiliation": "Analytical Engines"},
				{"name": "Grace Hopper", "affiliation": "US Navy"},
				{"name": "Katherine Johnson", "affiliation": "NASA"},
			},
		}
		svgFiles := []string{"out/page_1.svg", "out/page_2.svg"}
		path := filepath.Join(t.TempDir(), "badges.xlsx")

		Convey("When writing the manifest", func() {
			err := report.Write(path, "run-123", table, 2, svgFiles)

			Convey("Then the workbook maps every attendee to page, slot and file", func() {
				So(err, ShouldBeNil)

				f, err := excelize.OpenFile(path)
				So(err, ShouldBeNil)
				defer f.Close()

				rows, err := f.GetRows(report.SheetName)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 4)
				So(rows[0], ShouldResemble, []string{"Page", "Slot", "SVG File", "name", "affiliation"})
				So(rows[1], ShouldResemble, []string{"1", "1", "page_1.svg", "Ada Lovelace", "Analytical Engines"})
				So(rows[2], ShouldResemble, []string{"1", "2", "page_1.svg", "Grace Hopper", "US Navy"})
				So(rows[3], ShouldResemble, []string{"2", "1", "page_2.svg", "Katherine Johnson", "NASA"})
			})

			Convey("And the run id lands in the document properties", func() {
				So(err, ShouldBeNil)

				f, err := excelize.OpenFile(path)
				So(err, ShouldBeNil)
				defer f.Close()

				props, err := f.GetDocProps()
				So(err, ShouldBeNil)
				So(props.Identifier, ShouldEqual, "run-123")
			})
		})
	})
}
