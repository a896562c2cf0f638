package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/badgetools/namer/pkg/utils"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnsureOutputDir(t *testing.T) {
	Convey("Given a missing output directory", t, func() {
		dir := filepath.Join(t.TempDir(), "a", "b", "out")

		Convey("When ensuring it", func() {
			err := utils.EnsureOutputDir(dir, false)

			Convey("Then it is created with parents", func() {
				So(err, ShouldBeNil)
				info, statErr := os.Stat(dir)
				So(statErr, ShouldBeNil)
				So(info.IsDir(), ShouldBeTrue)
			})
		})
	})

	Convey("Given an existing empty directory", t, func() {
		dir := t.TempDir()
		So(utils.EnsureOutputDir(dir, false), ShouldBeNil)
	})

	Convey("Given an existing non-empty directory", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "stale.svg"), []byte("old"), 0644), ShouldBeNil)

		Convey("Then it is refused without force", func() {
			err := utils.EnsureOutputDir(dir, false)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not empty")
		})

		Convey("And accepted with force", func() {
			So(utils.EnsureOutputDir(dir, true), ShouldBeNil)
		})
	})

	Convey("Given a file where the directory should be", t, func() {
		path := filepath.Join(t.TempDir(), "out")
		So(os.WriteFile(path, []byte("x"), 0644), ShouldBeNil)

		Convey("Then ensuring fails", func() {
			err := utils.EnsureOutputDir(path, false)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not a directory")
		})
	})
}

func TestNaming(t *testing.T) {
	Convey("Page file names are sequential and deterministic", t, func() {
		So(utils.PageFileName(1), ShouldEqual, "page_1.svg")
		So(utils.PageFileName(12), ShouldEqual, "page_12.svg")
	})

	Convey("PDF paths mirror their SVG", t, func() {
		So(utils.PDFSibling("out/page_3.svg"), ShouldEqual, "out/page_3.pdf")
	})
}
