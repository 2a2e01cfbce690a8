package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/internal/domain/matchgraph"
	"github.com/okian/partidos/internal/domain/regression"
	"github.com/okian/partidos/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteReport(t *testing.T) {
	Convey("Given a finished run", t, func() {
		two, one := 2, 1
		rep := &Report{
			Competition: "PL",
			Season:      2024,
			Matches: []match.Match{
				{HomeTeam: "Liverpool FC", AwayTeam: "Arsenal FC", HomeGoals: &two, AwayGoals: &one},
				{HomeTeam: "Chelsea FC", AwayTeam: "Everton FC"},
			},
			Observations: []regression.Observation{{Shots: 21, Goals: 3}},
			Fit:          regression.Result{N: 1, Slope: regression.Coefficient{Estimate: 0.125}},
			Top:          []standings.Entry{{Rank: 1, Team: "Liverpool FC", Points: 3, Played: 1, Wins: 1}},
			StarInDegree: []matchgraph.Degree{{Team: "Arsenal FC", Weight: 3}, {Team: "Liverpool FC", Weight: 0}},
			Artifacts:    []string{"out/league.dot"},
		}

		Convey("When writing the report", func() {
			var buf bytes.Buffer
			So(WriteReport(&buf, rep, "Liverpool FC"), ShouldBeNil)
			text := buf.String()

			Convey("Then headings should precede bordered tables", func() {
				So(text, ShouldStartWith, "Partidos descargados: 2 (PL 2024, api)\n")
				So(text, ShouldContainSubstring, "+--")
				So(text, ShouldContainSubstring, "goles_visitante")
				So(text, ShouldContainSubstring, "Coeficiente (pendiente): 0.1250")
			})

			Convey("And missing scores should print as a dash", func() {
				So(lineWith(text, "Chelsea FC"), ShouldContainSubstring, "| -")
			})

			Convey("And the ranking and in-degree rows should be tabulated", func() {
				So(lineWith(text, "| 1 | Liverpool FC"), ShouldContainSubstring, "| 3 ")
				So(lineWith(text, "Arsenal FC  "), ShouldContainSubstring, "| 3")
				So(text, ShouldContainSubstring, "puntos recibidos")
				So(text, ShouldEndWith, "out/league.dot\n")
			})
		})
	})
}

func lineWith(text, sub string) string {
	for _, l := range strings.Split(text, "\n") {
		if strings.Contains(l, sub) {
			return l
		}
	}
	return ""
}
