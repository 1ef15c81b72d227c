package ingest_test

import (
	"testing"

	"github.com/okian/formline/internal/adapters/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given the upload decoder", t, func() {
		Convey("When a well-formed CSV arrives", func() {
			table, err := ingest.Decode("tips.csv", []byte("Track, Horse Name\nBallarat,Fast Dan\n"))

			Convey("Then headers are trimmed and cells kept verbatim", func() {
				So(err, ShouldBeNil)
				So(table.Filename, ShouldEqual, "tips.csv")
				So(table.Columns, ShouldResemble, []string{"Track", "Horse Name"})
				So(table.Rows, ShouldResemble, [][]string{{"Ballarat", "Fast Dan"}})
			})
		})

		Convey("When the file carries a UTF-8 byte order mark", func() {
			table, err := ingest.Decode("tips.csv", []byte("\xEF\xBB\xBFTrack\nBallarat\n"))

			Convey("Then the mark does not leak into the first header", func() {
				So(err, ShouldBeNil)
				So(table.Columns[0], ShouldEqual, "Track")
			})
		})

		Convey("When data rows are ragged", func() {
			table, err := ingest.Decode("tips.csv", []byte("a,b,c\n1,2\n1,2,3,4\n"))

			Convey("Then rows are padded or truncated to the header width", func() {
				So(err, ShouldBeNil)
				So(table.Rows[0], ShouldResemble, []string{"1", "2", ""})
				So(table.Rows[1], ShouldResemble, []string{"1", "2", "3"})
			})
		})

		Convey("When the file is empty", func() {
			_, err := ingest.Decode("empty.csv", nil)

			Convey("Then the error names the file", func() {
				So(err, ShouldWrap, ingest.ErrEmptyFile)
				So(err.Error(), ShouldContainSubstring, "empty.csv")
			})
		})

		Convey("When several files are decoded together", func() {
			tables, err := ingest.DecodeAll([]ingest.File{
				{Name: "a.csv", Content: []byte("x\n1\n")},
				{Name: "b.csv", Content: []byte("y\n2\n")},
			})

			Convey("Then tables come back in upload order", func() {
				So(err, ShouldBeNil)
				So(tables, ShouldHaveLength, 2)
				So(tables[0].Filename, ShouldEqual, "a.csv")
				So(tables[1].Filename, ShouldEqual, "b.csv")
			})
		})
	})
}
