package regression_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/internal/domain/regression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observations(xs, ys []float64) []regression.Observation {
	out := make([]regression.Observation, len(xs))
	for i := range xs {
		out[i] = regression.Observation{Shots: xs[i], Goals: ys[i]}
	}
	return out
}

func TestFitOLS_PerfectLine(t *testing.T) {
	res, err := regression.FitOLS(observations(
		[]float64{1, 2, 3, 4, 5},
		[]float64{3, 5, 7, 9, 11},
	))
	require.NoError(t, err)

	assert.InDelta(t, 2.0, res.Slope.Estimate, 1e-9)
	assert.InDelta(t, 1.0, res.Intercept.Estimate, 1e-9)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.InDelta(t, 21.0, res.Predict(10), 1e-9)
	assert.True(t, math.IsInf(res.FStatistic, 1))
	assert.Equal(t, 5, res.N)
}

func TestFitOLS_Summary(t *testing.T) {
	res, err := regression.FitOLS(observations(
		[]float64{1, 2, 3, 4, 5},
		[]float64{2, 4, 5, 4, 5},
	))
	require.NoError(t, err)

	assert.InDelta(t, 0.6, res.Slope.Estimate, 1e-9)
	assert.InDelta(t, 2.2, res.Intercept.Estimate, 1e-9)
	assert.InDelta(t, 0.6, res.RSquared, 1e-9)
	assert.InDelta(t, 0.4667, res.AdjRSquared, 1e-4)
	assert.InDelta(t, 0.2828, res.Slope.StdErr, 1e-4)
	assert.InDelta(t, 0.9381, res.Intercept.StdErr, 1e-4)
	assert.InDelta(t, 2.1213, res.Slope.T, 1e-4)
	assert.InDelta(t, 0.124, res.Slope.P, 1e-3)
	assert.InDelta(t, 4.5, res.FStatistic, 1e-9)
	assert.InDelta(t, res.Slope.P, res.FPValue, 1e-6)
}

func TestFitOLS_Errors(t *testing.T) {
	_, err := regression.FitOLS(observations([]float64{1, 2}, []float64{1, 2}))
	assert.True(t, errors.Is(err, regression.ErrTooFewObservations))

	_, err = regression.FitOLS(observations([]float64{4, 4, 4}, []float64{1, 2, 3}))
	assert.True(t, errors.Is(err, regression.ErrNoVariance))
}

func TestSimulateShots(t *testing.T) {
	matches := []match.Match{
		{HomeTeam: "A", AwayTeam: "B", HomeGoals: match.Goals(2), AwayGoals: match.Goals(1)},
		{HomeTeam: "B", AwayTeam: "C"},
		{HomeTeam: "C", AwayTeam: "A", HomeGoals: match.Goals(0), AwayGoals: match.Goals(0)},
	}

	first := regression.SimulateShots(matches, 42, 5, 25)
	second := regression.SimulateShots(matches, 42, 5, 25)

	require.Len(t, first, 2, "the unscored match should be dropped")
	assert.Equal(t, first, second, "same seed should give the same draws")
	assert.Equal(t, 3.0, first[0].Goals)
	assert.Equal(t, 0.0, first[1].Goals)

	for _, o := range first {
		assert.GreaterOrEqual(t, o.HomeShots, 5)
		assert.Less(t, o.HomeShots, 25)
		assert.GreaterOrEqual(t, o.AwayShots, 5)
		assert.Less(t, o.AwayShots, 25)
		assert.Equal(t, float64(o.HomeShots+o.AwayShots), o.Shots)
	}
}

func TestSimulateShots_DropDoesNotShiftDraws(t *testing.T) {
	played := match.Match{HomeTeam: "A", AwayTeam: "B", HomeGoals: match.Goals(1), AwayGoals: match.Goals(1)}
	unplayed := match.Match{HomeTeam: "A", AwayTeam: "B"}

	all := regression.SimulateShots([]match.Match{played, played, played}, 7, 5, 25)
	mixed := regression.SimulateShots([]match.Match{played, unplayed, played}, 7, 5, 25)

	require.Len(t, mixed, 2)
	assert.Equal(t, all[0], mixed[0])
	assert.Equal(t, all[2], mixed[1])
}
