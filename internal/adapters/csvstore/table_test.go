package csvstore_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/internal/domain/match"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `fecha,equipo_local,equipo_visitante,goles_local,goles_visitante
2024-08-17,Liverpool FC,Arsenal FC,2,1
2024-08-24,Chelsea FC,Liverpool FC,1,1
2024-08-31,Arsenal FC,Chelsea FC,0,3
`

func TestRead(t *testing.T) {
	Convey("Given a CSV with every score present", t, func() {
		table, err := csvstore.Read(strings.NewReader(sample))
		So(err, ShouldBeNil)

		Convey("Then there should be one record per row, equal to the source", func() {
			body, err := json.Marshal(table.Records())
			So(err, ShouldBeNil)

			var got []map[string]any
			So(json.Unmarshal(body, &got), ShouldBeNil)
			So(len(got), ShouldEqual, 3)
			So(got[0], ShouldResemble, map[string]any{
				"fecha":            "2024-08-17",
				"equipo_local":     "Liverpool FC",
				"equipo_visitante": "Arsenal FC",
				"goles_local":      float64(2),
				"goles_visitante":  float64(1),
			})
			for _, rec := range got {
				for _, v := range rec {
					So(v, ShouldNotBeNil)
				}
			}
		})

		Convey("And keys should keep header order", func() {
			body, err := json.Marshal(table.Records()[1])
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual,
				`{"fecha":"2024-08-24","equipo_local":"Chelsea FC","equipo_visitante":"Liverpool FC","goles_local":1,"goles_visitante":1}`)
		})
	})

	Convey("Given empty and NaN cells", t, func() {
		input := "fecha,equipo_local,equipo_visitante,goles_local,goles_visitante\n" +
			"2024-09-01,Everton FC,Liverpool FC,,\n" +
			"2024-09-02,Arsenal FC,Everton FC,NaN,2\n"
		table, err := csvstore.Read(strings.NewReader(input))
		So(err, ShouldBeNil)

		Convey("Then they should marshal as null", func() {
			body, err := json.Marshal(table.Records())
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, `"goles_local":null,"goles_visitante":null`)
			So(string(body), ShouldContainSubstring, `"goles_local":null,"goles_visitante":2`)
			So(string(body), ShouldNotContainSubstring, `""`)
			So(string(body), ShouldNotContainSubstring, `NaN`)
		})
	})

	Convey("Given a row shorter than the header", t, func() {
		table, err := csvstore.Read(strings.NewReader("a,b,c\n1,2\n"))

		Convey("Then missing trailing cells should be null", func() {
			So(err, ShouldBeNil)
			So(table.Rows[0], ShouldResemble, []any{int64(1), int64(2), nil})
		})
	})

	Convey("Given a row longer than the header", t, func() {
		_, err := csvstore.Read(strings.NewReader("a,b\n1,2,3\n"))

		Convey("Then it should be a parse error", func() {
			So(errors.Is(err, csvstore.ErrTooMany), ShouldBeTrue)
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := csvstore.Read(strings.NewReader(""))
		So(errors.Is(err, csvstore.ErrEmpty), ShouldBeTrue)
	})

	Convey("Given a header-only input", t, func() {
		table, err := csvstore.Read(strings.NewReader("a,b\n"))
		So(err, ShouldBeNil)

		body, err := json.Marshal(table.Records())
		So(err, ShouldBeNil)
		So(string(body), ShouldEqual, "[]")
	})

	Convey("Given mixed column types", t, func() {
		table, err := csvstore.Read(strings.NewReader("n,f,s\n1,1.5,x\n2,2,7\n"))
		So(err, ShouldBeNil)

		Convey("Then each column should get the narrowest common type", func() {
			So(table.Rows[0], ShouldResemble, []any{int64(1), 1.5, "x"})
			So(table.Rows[1], ShouldResemble, []any{int64(2), float64(2), "7"})
		})
	})
}

func TestTable_Matches(t *testing.T) {
	Convey("Given a parsed table", t, func() {
		table, err := csvstore.Read(strings.NewReader(sample +
			"2024-09-07,Everton FC,Arsenal FC,,\n"))
		So(err, ShouldBeNil)

		Convey("When converting with the default columns", func() {
			ms, err := table.Matches(csvstore.DefaultColumns)

			Convey("Then every row should become a match", func() {
				So(err, ShouldBeNil)
				So(len(ms), ShouldEqual, 4)
				So(ms[0].HomeTeam, ShouldEqual, "Liverpool FC")
				So(*ms[0].HomeGoals, ShouldEqual, 2)
				So(ms[0].Date.Equal(time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(ms[3].HomeGoals, ShouldBeNil)
				So(ms[3].Scored(), ShouldBeFalse)
			})
		})

		Convey("When a required column is missing", func() {
			cols := csvstore.DefaultColumns
			cols.HomeGoals = "home_goals"
			_, err := table.Matches(cols)

			So(errors.Is(err, csvstore.ErrNoColumn), ShouldBeTrue)
		})
	})

	Convey("Given a non-numeric goal cell", t, func() {
		table, err := csvstore.Read(strings.NewReader("fecha,equipo_local,equipo_visitante,goles_local,goles_visitante\n2024-01-01,A,B,dos,1\n"))
		So(err, ShouldBeNil)

		_, err = table.Matches(csvstore.DefaultColumns)
		So(errors.Is(err, csvstore.ErrBadNumber), ShouldBeTrue)
	})

	Convey("Given an unparseable date", t, func() {
		table, err := csvstore.Read(strings.NewReader("fecha,equipo_local,equipo_visitante,goles_local,goles_visitante\nsoon,A,B,1,1\n"))
		So(err, ShouldBeNil)

		_, err = table.Matches(csvstore.DefaultColumns)
		So(errors.Is(err, csvstore.ErrBadDate), ShouldBeTrue)
	})
}

func TestReadRepeatedColumns(t *testing.T) {
	Convey("Given a header that repeats a column name", t, func() {
		table, err := csvstore.Read(strings.NewReader("a,a,b,a.1,a\n1,2,x,3,4\n"))
		So(err, ShouldBeNil)

		Convey("Then repeats should get numbered suffixes", func() {
			So(table.Columns, ShouldResemble, []string{"a", "a.1", "b", "a.1.1", "a.2"})
		})

		Convey("And the JSON record should carry one key per column", func() {
			body, err := json.Marshal(table.Records()[0])
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, `{"a":1,"a.1":2,"b":"x","a.1.1":3,"a.2":4}`)
		})
	})
}

func TestParseDate(t *testing.T) {
	Convey("Given the supported layouts", t, func() {
		for _, s := range []string{"2024-03-09", "2024-03-09T20:00:00Z", "2024-03-09 20:00:00", "2024-03-09T20:00:00", "03/09/2024"} {
			d, err := csvstore.ParseDate(s)
			So(err, ShouldBeNil)
			So(d.Year(), ShouldEqual, 2024)
			So(d.Month(), ShouldEqual, time.March)
			So(d.Day(), ShouldEqual, 9)
		}
	})

	Convey("Given slash dates", t, func() {
		Convey("When the first part can be a month", func() {
			d, err := csvstore.ParseDate("01/13/2024")

			Convey("Then it should be read month first", func() {
				So(err, ShouldBeNil)
				So(d.Equal(time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})

		Convey("When the first part is past twelve", func() {
			d, err := csvstore.ParseDate("13/01/2024")

			Convey("Then it should fall back to day first", func() {
				So(err, ShouldBeNil)
				So(d.Equal(time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})

		Convey("When neither reading fits", func() {
			_, err := csvstore.ParseDate("13/13/2024")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, csvstore.ErrBadDate), ShouldBeTrue)
			})
		})
	})
}

func TestFileLoader(t *testing.T) {
	Convey("Given a CSV file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "partidos.csv")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)
		loader := csvstore.NewFileLoader(path)

		Convey("Then Load should return the table", func() {
			table, err := loader.Load(context.Background())
			So(err, ShouldBeNil)
			So(table.Len(), ShouldEqual, 3)
		})

		Convey("And LoadMatches should return the table and its matches", func() {
			table, ms, err := loader.LoadMatches(context.Background(), csvstore.DefaultColumns)
			So(err, ShouldBeNil)
			So(table.Len(), ShouldEqual, 3)
			So(len(ms), ShouldEqual, 3)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		loader := csvstore.NewFileLoader(filepath.Join(t.TempDir(), "missing.csv"))

		_, err := loader.Load(context.Background())
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}

func TestWriteMatches(t *testing.T) {
	Convey("Given matches with one unplayed fixture", t, func() {
		ms := []match.Match{
			{Date: time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC), HomeTeam: "Real Madrid", AwayTeam: "Barcelona", HomeGoals: match.Goals(2), AwayGoals: match.Goals(1)},
			{Date: time.Date(2024, 8, 24, 0, 0, 0, 0, time.UTC), HomeTeam: "Sevilla", AwayTeam: "Betis"},
		}

		Convey("When written and read back", func() {
			var buf bytes.Buffer
			So(csvstore.WriteMatches(&buf, ms, csvstore.DefaultColumns), ShouldBeNil)

			table, err := csvstore.Read(&buf)
			So(err, ShouldBeNil)

			Convey("Then the header should use the column names", func() {
				So(table.Columns, ShouldResemble, []string{"fecha", "equipo_local", "equipo_visitante", "goles_local", "goles_visitante"})
			})

			Convey("And the unplayed fixture should come back as null goals", func() {
				back, err := table.Matches(csvstore.DefaultColumns)
				So(err, ShouldBeNil)
				So(back[0].Outcome(), ShouldEqual, match.HomeWin)
				So(back[1].Scored(), ShouldBeFalse)
				So(table.Rows[1][3], ShouldBeNil)
			})
		})
	})
}
