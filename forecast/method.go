// Package forecast contains the forecasting methods compared by the benchmark and the error
// scores used to compare them. Every method maps a training series and a horizon length onto
// a forecast of exactly that length.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-benchcast/smoothing"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("insufficient training data")
	ErrNegativeHorizon  = errors.New("forecast horizon cannot be negative")
)

// Method forecasts a horizon from a training series
type Method interface {
	// Name is the label recorded alongside the method's error
	Name() string
	// Params describes the fixed or fitted parameters of the last forecast
	Params() map[string]float64
	Forecast(train []float64, horizon int) ([]float64, error)
}

func fill(n int, val float64) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = val
	}
	return res
}

// Naive repeats the last training observation over the horizon
type Naive struct{}

func (Naive) Name() string {
	return "Naive"
}

func (Naive) Params() map[string]float64 {
	return map[string]float64{}
}

func (Naive) Forecast(train []float64, horizon int) ([]float64, error) {
	if horizon < 0 {
		return nil, ErrNegativeHorizon
	}
	if len(train) == 0 {
		return nil, fmt.Errorf("naive forecast, %w", ErrInsufficientData)
	}
	return fill(horizon, train[len(train)-1]), nil
}

// MovingAverage broadcasts the mean of the last Window training observations over the horizon.
// A window longer than the training series yields NaN.
type MovingAverage struct {
	Window int
}

func (m MovingAverage) Name() string {
	return fmt.Sprintf("Moving Average %dD", m.Window)
}

func (m MovingAverage) Params() map[string]float64 {
	return map[string]float64{"window": float64(m.Window)}
}

func (m MovingAverage) Forecast(train []float64, horizon int) ([]float64, error) {
	if horizon < 0 {
		return nil, ErrNegativeHorizon
	}
	if m.Window <= 0 || m.Window > len(train) {
		return fill(horizon, math.NaN()), nil
	}
	return fill(horizon, stat.Mean(train[len(train)-m.Window:], nil)), nil
}

// SimpleExpSmoothing forecasts with a fixed smoothing level
type SimpleExpSmoothing struct {
	Alpha float64
}

func (s SimpleExpSmoothing) Name() string {
	return fmt.Sprintf("Simple Exp Smoothing %s", formatParam(s.Alpha))
}

func (s SimpleExpSmoothing) Params() map[string]float64 {
	return map[string]float64{"alpha": s.Alpha}
}

func (s SimpleExpSmoothing) Forecast(train []float64, horizon int) ([]float64, error) {
	est, err := smoothing.NewSimpleExp(s.Alpha)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(train); err != nil {
		return nil, err
	}
	return est.Forecast(horizon)
}

// HoltLinear forecasts with holt's linear trend using fixed level and slope smoothing
type HoltLinear struct {
	Alpha float64
	Beta  float64

	initLevel float64
	initSlope float64
}

func (h *HoltLinear) Name() string {
	return fmt.Sprintf("Holt's Linear Trend %s", formatParam(h.Beta))
}

func (h *HoltLinear) Params() map[string]float64 {
	return map[string]float64{
		"alpha":         h.Alpha,
		"beta":          h.Beta,
		"initial_level": h.initLevel,
		"initial_slope": h.initSlope,
	}
}

func (h *HoltLinear) Forecast(train []float64, horizon int) ([]float64, error) {
	est, err := smoothing.NewHolt(&smoothing.HoltOptions{
		Alpha:           h.Alpha,
		Beta:            h.Beta,
		EstimateInitial: true,
	})
	if err != nil {
		return nil, err
	}
	if err := est.Fit(train); err != nil {
		return nil, err
	}
	h.initLevel, h.initSlope = est.InitialStates()
	return est.Forecast(horizon)
}

// HoltWinters forecasts with additive trend and additive seasonality, optimizing its smoothing
// parameters on the training series
type HoltWinters struct {
	Period int

	alpha  float64
	beta   float64
	gamma  float64
	status string
}

func (h *HoltWinters) Name() string {
	return fmt.Sprintf("Holt's Winter Model @@%d", h.Period)
}

func (h *HoltWinters) Params() map[string]float64 {
	return map[string]float64{
		"period": float64(h.Period),
		"alpha":  h.alpha,
		"beta":   h.beta,
		"gamma":  h.gamma,
	}
}

// Status reports how the last parameter search terminated
func (h *HoltWinters) Status() string {
	return h.status
}

func (h *HoltWinters) Forecast(train []float64, horizon int) ([]float64, error) {
	opt := smoothing.NewDefaultHoltWintersOptions()
	opt.Period = h.Period
	est, err := smoothing.NewHoltWinters(opt)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(train); err != nil {
		return nil, err
	}
	h.alpha, h.beta, h.gamma = est.Params()
	h.status = est.Status().String()
	return est.Forecast(horizon)
}

func formatParam(v float64) string {
	return fmt.Sprintf("%g", v)
}
