package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingMean returns the mean of each trailing window of w points. The first w-1 outputs have
// an incomplete window and are NaN. A non positive window yields all NaN.
func RollingMean(y []float64, w int) []float64 {
	res := nanSlice(len(y))
	if w <= 0 {
		return res
	}
	for i := w - 1; i < len(y); i++ {
		res[i] = stat.Mean(y[i-w+1:i+1], nil)
	}
	return res
}

// RollingStdDev returns the sample standard deviation (n-1 denominator) of each trailing window
// of w points with the same NaN padding as RollingMean. A window of one point is NaN.
func RollingStdDev(y []float64, w int) []float64 {
	res := nanSlice(len(y))
	if w <= 1 {
		return res
	}
	for i := w - 1; i < len(y); i++ {
		_, std := stat.MeanStdDev(y[i-w+1:i+1], nil)
		res[i] = std
	}
	return res
}

func nanSlice(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = math.NaN()
	}
	return res
}
