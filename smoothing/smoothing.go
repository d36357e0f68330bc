// Package smoothing implements the exponential smoothing family of estimators: simple
// exponential smoothing, holt's linear trend, and additive holt-winters. Each estimator is fit
// on a slice of evenly spaced observations and forecasts a number of steps past the end.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

var (
	ErrInvalidParam     = errors.New("smoothing parameter must be between 0 and 1")
	ErrInvalidPeriod    = errors.New("seasonal period must be greater than 1")
	ErrInsufficientData = errors.New("insufficient observations to fit")
	ErrUntrained        = errors.New("estimator has not been fit")
	ErrNegativeHorizon  = errors.New("forecast horizon cannot be negative")
)

const DefaultMaxEvaluations = 2000

// Estimator is a fit-then-forecast smoothing model
type Estimator interface {
	Fit(y []float64) error
	Forecast(h int) ([]float64, error)
	Fitted() []float64
	SSE() float64
}

var (
	_ Estimator = (*SimpleExp)(nil)
	_ Estimator = (*Holt)(nil)
	_ Estimator = (*HoltWinters)(nil)
)

func validParam(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s=%.4f, %w", name, v, ErrInvalidParam)
	}
	return nil
}

func sse(y, fitted []float64) float64 {
	var total float64
	for i := range y {
		diff := y[i] - fitted[i]
		total += diff * diff
	}
	return total
}

// logistic maps the real line onto (0, 1) so an unconstrained optimizer can search bounded
// smoothing parameters
func logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func logit(p float64) float64 {
	p = math.Min(math.Max(p, 1e-6), 1-1e-6)
	return math.Log(p / (1 - p))
}

// minimizeResult is the best point found by the optimizer along with how it terminated
type minimizeResult struct {
	X      []float64
	F      float64
	Status optimize.Status
}

func minimize(f func(x []float64) float64, init []float64, maxEvals int) (*minimizeResult, error) {
	if maxEvals <= 0 {
		maxEvals = DefaultMaxEvaluations
	}
	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Converger: &optimize.FunctionConverge{
			Relative:   1e-10,
			Iterations: 200,
		},
	}
	res, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if res == nil {
		return nil, fmt.Errorf("unable to minimize sum of squared errors, %w", err)
	}
	return &minimizeResult{
		X:      res.X,
		F:      res.F,
		Status: res.Status,
	}, nil
}

func copyOf(y []float64) []float64 {
	out := make([]float64, len(y))
	copy(out, y)
	return out
}
