// Package dashboard serves the match dashboard: KPIs, charts and the raw table.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/internal/adapters/http/api"
	"github.com/okian/partidos/internal/adapters/render"
	"github.com/okian/partidos/internal/domain/kpi"
	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/pkg/logger"
)

// OutcomeColumn is the derived column appended to the raw table.
const OutcomeColumn = "resultado"

// MatchLoader reads the match table and its typed matches.
type MatchLoader interface {
	LoadMatches(ctx context.Context, cols csvstore.Columns) (*csvstore.Table, []match.Match, error)
}

// Handler serves the dashboard routes.
type Handler struct {
	loader MatchLoader
	cols   csvstore.Columns
	title  string
	log    logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithColumns overrides the CSV column names.
func WithColumns(cols csvstore.Columns) Option {
	return func(h *Handler) { h.cols = cols }
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if title != "" {
			h.title = title
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a dashboard handler.
func New(loader MatchLoader, opts ...Option) *Handler {
	h := &Handler{
		loader: loader,
		cols:   csvstore.DefaultColumns,
		title:  "Dashboard de Partidos de Fútbol",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the dashboard routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.requestID)

	r.HandleFunc("/", api.MetricsMiddleware(h.handleIndex, "dashboard")).Methods(http.MethodGet)
	r.HandleFunc("/charts/goals.svg", api.MetricsMiddleware(h.handleGoalsChart, "chart_goals")).Methods(http.MethodGet)
	r.HandleFunc("/charts/outcomes.svg", api.MetricsMiddleware(h.handleOutcomesChart, "chart_outcomes")).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", api.MetricsMiddleware(h.handleSummary, "summary")).Methods(http.MethodGet)
	r.Handle("/metrics", api.NewMetricsHandler()).Methods(http.MethodGet)
	return r
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return api.RequestID(next, h.log)
}

type cell struct {
	Text string
	Null bool
}

type page struct {
	Title    string
	Columns  []string
	Rows     [][]cell
	Empty    bool
	Summary  kpi.Summary
	Goals    []kpi.TeamGoals
	Outcomes []kpi.OutcomeShare
}

// Summary is the JSON body of /api/summary.
type Summary struct {
	kpi.Summary
	GoalsByTeam []kpi.TeamGoals    `json:"goals_by_team"`
	Outcomes    []kpi.OutcomeShare `json:"outcomes"`
}

func (h *Handler) load(ctx context.Context) (*csvstore.Table, []match.Match, error) {
	t, ms, err := h.loader.LoadMatches(ctx, h.cols)
	if err != nil && h.log != nil {
		h.log.Error(ctx, "load matches", logger.Error(err))
	}
	return t, ms, err
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, ms, err := h.load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	p := page{Title: h.title, Columns: append(append([]string{}, t.Columns...), OutcomeColumn)}
	for i, row := range t.Rows {
		cells := make([]cell, 0, len(row)+1)
		for _, v := range row {
			cells = append(cells, formatCell(v))
		}
		cells = append(cells, cell{Text: ms[i].Outcome().Label(), Null: ms[i].Outcome() == match.Unknown})
		p.Rows = append(p.Rows, cells)
	}

	p.Summary, err = kpi.Summarize(ms)
	switch {
	case errors.Is(err, kpi.ErrNoMatches):
		p.Empty = true
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	p.Goals = kpi.GoalsByTeam(ms)
	p.Outcomes = kpi.OutcomeCounts(ms)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		http.Error(w, fmt.Sprintf("render page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleGoalsChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(out io.Writer, ms []match.Match) error {
		return render.GoalsBarChart(out, kpi.GoalsByTeam(ms))
	})
}

func (h *Handler) handleOutcomesChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(out io.Writer, ms []match.Match) error {
		return render.OutcomePieChart(out, kpi.OutcomeCounts(ms))
	})
}

func (h *Handler) serveChart(w http.ResponseWriter, r *http.Request, draw func(io.Writer, []match.Match) error) {
	_, ms, err := h.load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, ms); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrNoData) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, ms, err := h.load(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}

	s, err := kpi.Summarize(ms)
	if err != nil && !errors.Is(err, kpi.ErrNoMatches) {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(Summary{
		Summary:     s,
		GoalsByTeam: kpi.GoalsByTeam(ms),
		Outcomes:    kpi.OutcomeCounts(ms),
	})
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func formatCell(v any) cell {
	switch x := v.(type) {
	case nil:
		return cell{Null: true}
	case int64:
		return cell{Text: strconv.FormatInt(x, 10)}
	case float64:
		return cell{Text: strconv.FormatFloat(x, 'f', -1, 64)}
	case string:
		return cell{Text: x}
	default:
		return cell{Text: fmt.Sprint(x)}
	}
}
