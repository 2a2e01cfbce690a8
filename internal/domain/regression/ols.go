package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel errors.
var (
	ErrTooFewObservations = errors.New("at least 3 observations are required")
	ErrNoVariance         = errors.New("shots have no variance")
)

const minObservations = 3

// Coefficient is one estimated parameter with its inference statistics.
type Coefficient struct {
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	T        float64 `json:"t"`
	P        float64 `json:"p"`
}

// Result is the least-squares fit of goals = Intercept + Slope*shots.
type Result struct {
	N           int         `json:"n"`
	Slope       Coefficient `json:"slope"`
	Intercept   Coefficient `json:"intercept"`
	RSquared    float64     `json:"r_squared"`
	AdjRSquared float64     `json:"adj_r_squared"`
	FStatistic  float64     `json:"f_statistic"`
	FPValue     float64     `json:"f_p_value"`
	ResidualSE  float64     `json:"residual_std_err"`
}

// Predict returns the fitted goals for shots.
func (r Result) Predict(shots float64) float64 {
	return r.Intercept.Estimate + r.Slope.Estimate*shots
}

// FitOLS fits goals on shots.
func FitOLS(obs []Observation) (Result, error) {
	n := len(obs)
	if n < minObservations {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooFewObservations, n)
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, o := range obs {
		x[i], y[i] = o.Shots, o.Goals
	}

	meanX := stat.Mean(x, nil)
	var sxx float64
	for _, v := range x {
		sxx += (v - meanX) * (v - meanX)
	}
	if sxx == 0 {
		return Result{}, ErrNoVariance
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	var sse, sst float64
	meanY := stat.Mean(y, nil)
	for i := range x {
		res := y[i] - (alpha + beta*x[i])
		sse += res * res
		sst += (y[i] - meanY) * (y[i] - meanY)
	}

	df := float64(n - 2)
	sigma2 := sse / df

	r := Result{
		N:          n,
		ResidualSE: math.Sqrt(sigma2),
	}
	r.Slope = coefficient(beta, math.Sqrt(sigma2/sxx), df)
	r.Intercept = coefficient(alpha, math.Sqrt(sigma2*(1/float64(n)+meanX*meanX/sxx)), df)

	if sst > 0 {
		r.RSquared = 1 - sse/sst
		r.AdjRSquared = 1 - (1-r.RSquared)*float64(n-1)/df
	}
	switch {
	case sse == 0:
		r.FStatistic = math.Inf(1)
	default:
		r.FStatistic = (sst - sse) / sigma2
		r.FPValue = distuv.F{D1: 1, D2: df}.Survival(r.FStatistic)
	}
	return r, nil
}

func coefficient(estimate, stdErr, df float64) Coefficient {
	c := Coefficient{Estimate: estimate, StdErr: stdErr}
	if stdErr == 0 {
		c.T = math.Inf(1)
		if estimate < 0 {
			c.T = math.Inf(-1)
		}
		return c
	}
	c.T = estimate / stdErr
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	c.P = 2 * tdist.Survival(math.Abs(c.T))
	return c
}
