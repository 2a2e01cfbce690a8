package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/partidos/internal/app"
	"github.com/okian/partidos/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const feed = `{"matches": [
 {"utcDate":"2023-08-11T19:00:00Z","homeTeam":{"name":"Burnley FC"},"awayTeam":{"name":"Manchester City FC"},"score":{"fullTime":{"home":0,"away":3}}},
 {"utcDate":"2023-08-12T12:00:00Z","homeTeam":{"name":"Arsenal FC"},"awayTeam":{"name":"Nottingham Forest FC"},"score":{"fullTime":{"home":2,"away":1}}},
 {"utcDate":"2023-08-12T14:00:00Z","homeTeam":{"name":"Everton FC"},"awayTeam":{"name":"Fulham FC"},"score":{"fullTime":{"home":0,"away":1}}},
 {"utcDate":"2023-08-12T14:00:00Z","homeTeam":{"name":"Sheffield United FC"},"awayTeam":{"name":"Crystal Palace FC"},"score":{"fullTime":{"home":0,"away":1}}},
 {"utcDate":"2023-08-12T16:30:00Z","homeTeam":{"name":"Newcastle United FC"},"awayTeam":{"name":"Aston Villa FC"},"score":{"fullTime":{"home":5,"away":1}}},
 {"utcDate":"2023-08-13T15:30:00Z","homeTeam":{"name":"Chelsea FC"},"awayTeam":{"name":"Liverpool FC"},"score":{"fullTime":{"home":1,"away":1}}}
]}`

func TestApplyFlags(t *testing.T) {
	convey.Convey("Given default configuration", t, func() {
		cfg := config.New()

		convey.Convey("When flags are passed", func() {
			err := applyFlags(cfg, []string{"-competition", "PD", "-season", "2024", "-top", "4", "-team", "Real Madrid CF", "-refresh"})

			convey.Convey("Then they should override the config", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Competition, convey.ShouldEqual, "PD")
				convey.So(cfg.Season, convey.ShouldEqual, 2024)
				convey.So(cfg.TopTeams, convey.ShouldEqual, 4)
				convey.So(cfg.FocalTeam, convey.ShouldEqual, "Real Madrid CF")
				convey.So(cfg.Refresh, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a flag breaks validation", func() {
			err := applyFlags(cfg, []string{"-limit", "0"})

			convey.Convey("Then it should be reported as invalid config", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a fake football-data server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Auth-Token") != "token" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(feed))
		}))
		defer srv.Close()

		dir := t.TempDir()
		t.Setenv("PARTIDOS_FOOTBALL_DATA_URL", srv.URL+"/")
		t.Setenv("PARTIDOS_FOOTBALL_DATA_TOKEN", "token")

		convey.Convey("When running with a cache", func() {
			var out bytes.Buffer
			err := run(context.Background(), []string{"-out", dir, "-cache", filepath.Join(dir, "cache.db")}, &out)

			convey.Convey("Then the report and artifacts should be produced", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Partidos descargados: 6")
				_, statErr := os.Stat(filepath.Join(dir, app.StarFile))
				convey.So(statErr, convey.ShouldBeNil)
				_, statErr = os.Stat(filepath.Join(dir, "cache.db"))
				convey.So(statErr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the token is wrong", func() {
			t.Setenv("PARTIDOS_FOOTBALL_DATA_TOKEN", "bad")
			err := run(context.Background(), []string{"-out", dir}, &bytes.Buffer{})

			convey.Convey("Then the run should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
