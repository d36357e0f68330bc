package stats

import (
	"fmt"
	"math"
)

// Decomposition splits a series into y = trend + seasonal + residual
type Decomposition struct {
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
	Period   int       `json:"period"`
}

// Decompose performs a classical additive decomposition. The trend is a centered moving average
// of one period (a 2xperiod average for even periods) and is NaN where the window does not fit.
// The seasonal component is the per slot mean of the detrended series, centered to sum to zero.
func Decompose(y []float64, period int) (*Decomposition, error) {
	if period < 2 {
		return nil, fmt.Errorf("period=%d, %w", period, ErrInvalidPeriod)
	}
	n := len(y)
	if n < 2*period {
		return nil, fmt.Errorf("need 2 full periods of %d points, got %d, %w", period, n, ErrInsufficientData)
	}

	trend := centeredMovingAverage(y, period)

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) || math.IsNaN(y[i]) {
			continue
		}
		pattern[i%period] += y[i] - trend[i]
		counts[i%period]++
	}
	var mean float64
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period] - mean
		residual[i] = y[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}, nil
}

func centeredMovingAverage(y []float64, period int) []float64 {
	n := len(y)
	res := nanSlice(n)
	half := period / 2

	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = 0.5*y[i-half] + 0.5*y[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += y[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += y[j]
			}
		}
		res[i] = sum / float64(period)
	}
	return res
}
