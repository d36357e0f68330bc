package smoothing

import (
	"fmt"

	"github.com/aouyang1/go-benchcast/models"
	"gonum.org/v1/gonum/mat"
)

// HoltOptions configures holt's linear trend method. Alpha smooths the level and Beta smooths
// the slope. When EstimateInitial is set the initial level and slope minimize the one step
// ahead squared error, otherwise they are l_0 = y_0 and b_0 = y_1 - y_0.
type HoltOptions struct {
	Alpha           float64 `json:"alpha"`
	Beta            float64 `json:"beta"`
	EstimateInitial bool    `json:"estimate_initial"`
}

func NewDefaultHoltOptions() *HoltOptions {
	return &HoltOptions{
		Alpha:           0.1,
		Beta:            0.0001,
		EstimateInitial: true,
	}
}

// Holt is double exponential smoothing with an additive trend
type Holt struct {
	opt *HoltOptions

	initLevel float64
	initSlope float64
	level     float64
	slope     float64
	fitted    []float64
	sse       float64
	trained   bool
}

func NewHolt(opt *HoltOptions) (*Holt, error) {
	if opt == nil {
		opt = NewDefaultHoltOptions()
	}
	if err := validParam("alpha", opt.Alpha); err != nil {
		return nil, err
	}
	if err := validParam("beta", opt.Beta); err != nil {
		return nil, err
	}
	return &Holt{opt: opt}, nil
}

// holtFilter runs the level and slope recursions writing one step ahead predictions into
// fitted and returning the final states
func holtFilter(y []float64, alpha, beta, level, slope float64, fitted []float64) (float64, float64) {
	for i, v := range y {
		fitted[i] = level + slope
		prevLevel := level
		level = alpha*v + (1-alpha)*(level+slope)
		slope = beta*(level-prevLevel) + (1-beta)*slope
	}
	return level, slope
}

func (h *Holt) Fit(y []float64) error {
	n := len(y)
	if n < 2 {
		return fmt.Errorf("holt needs at least 2 points, got %d, %w", n, ErrInsufficientData)
	}

	h.initLevel = y[0]
	h.initSlope = y[1] - y[0]
	if h.opt.EstimateInitial {
		if l0, b0, err := h.estimateInitial(y); err == nil {
			h.initLevel = l0
			h.initSlope = b0
		}
	}

	fitted := make([]float64, n)
	h.level, h.slope = holtFilter(y, h.opt.Alpha, h.opt.Beta, h.initLevel, h.initSlope, fitted)
	h.fitted = fitted
	h.sse = sse(y, fitted)
	h.trained = true
	return nil
}

// estimateInitial solves for the initial level and slope exactly. For fixed alpha and beta the
// one step ahead predictions are affine in the initial states, so the squared error is
// minimized by regressing the zero-state residual on each state's impulse response.
func (h *Holt) estimateInitial(y []float64) (float64, float64, error) {
	n := len(y)
	zeros := make([]float64, n)

	base := make([]float64, n)
	holtFilter(y, h.opt.Alpha, h.opt.Beta, 0, 0, base)

	levelResp := make([]float64, n)
	holtFilter(zeros, h.opt.Alpha, h.opt.Beta, 1, 0, levelResp)

	slopeResp := make([]float64, n)
	holtFilter(zeros, h.opt.Alpha, h.opt.Beta, 0, 1, slopeResp)

	x := mat.NewDense(n, 2, nil)
	x.SetCol(0, levelResp)
	x.SetCol(1, slopeResp)

	target := make([]float64, n)
	for i := range y {
		target[i] = y[i] - base[i]
	}

	coef, err := models.OLS(x, mat.NewDense(n, 1, target))
	if err != nil {
		return 0, 0, fmt.Errorf("unable to estimate initial holt states, %w", err)
	}
	return coef[0], coef[1], nil
}

// Forecast returns l_n + k*b_n for k in [1, h]
func (h *Holt) Forecast(steps int) ([]float64, error) {
	if !h.trained {
		return nil, ErrUntrained
	}
	if steps < 0 {
		return nil, ErrNegativeHorizon
	}
	res := make([]float64, steps)
	for i := range res {
		res[i] = h.level + float64(i+1)*h.slope
	}
	return res, nil
}

func (h *Holt) Fitted() []float64 {
	return copyOf(h.fitted)
}

func (h *Holt) SSE() float64 {
	return h.sse
}

// InitialStates returns the level and slope the recursion started from
func (h *Holt) InitialStates() (float64, float64) {
	return h.initLevel, h.initSlope
}

// States returns the final level and slope after fitting
func (h *Holt) States() (float64, float64) {
	return h.level, h.slope
}
