package timedataset

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n evenly spaced time points beginning at start
func GenerateT(n int, interval time.Duration, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a helper for composing simulated observations
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLinearY returns intercept + slope*i for i in [0, n)
func GenerateLinearY(n int, intercept, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, intercept+slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY repeats the pattern until n points are produced
func GenerateSeasonalY(n int, pattern []float64) Series {
	y := make([]float64, n)
	if len(pattern) == 0 {
		return Series(y)
	}
	for i := 0; i < n; i++ {
		y[i] = pattern[i%len(pattern)]
	}
	return Series(y)
}

// GenerateNoise returns gaussian noise with standard deviation scale from a seeded source
func GenerateNoise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateRandomWalk returns the cumulative sum of seeded gaussian steps
func GenerateRandomWalk(n int, scale float64, seed uint64) Series {
	steps := GenerateNoise(n, scale, seed)
	y := make([]float64, n)
	floats.CumSum(y, steps)
	return Series(y)
}
