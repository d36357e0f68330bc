package smoothing

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// HoltWintersOptions configures triple exponential smoothing with an additive trend and
// additive seasonality. When Optimize is set Alpha, Beta, and Gamma are only starting points
// for a Nelder-Mead search over (0, 1) minimizing the one step ahead squared error.
type HoltWintersOptions struct {
	Period         int     `json:"period"`
	Alpha          float64 `json:"alpha"`
	Beta           float64 `json:"beta"`
	Gamma          float64 `json:"gamma"`
	Optimize       bool    `json:"optimize"`
	MaxEvaluations int     `json:"max_evaluations"`
}

func NewDefaultHoltWintersOptions() *HoltWintersOptions {
	return &HoltWintersOptions{
		Period:         7,
		Alpha:          0.3,
		Beta:           0.05,
		Gamma:          0.1,
		Optimize:       true,
		MaxEvaluations: DefaultMaxEvaluations,
	}
}

// HoltWinters is the additive holt-winters method
type HoltWinters struct {
	opt *HoltWintersOptions

	alpha float64
	beta  float64
	gamma float64

	level   float64
	slope   float64
	season  []float64 // indexed by observation position modulo period
	n       int
	fitted  []float64
	sse     float64
	status  optimize.Status
	trained bool
}

func NewHoltWinters(opt *HoltWintersOptions) (*HoltWinters, error) {
	if opt == nil {
		opt = NewDefaultHoltWintersOptions()
	}
	if opt.Period < 2 {
		return nil, fmt.Errorf("period=%d, %w", opt.Period, ErrInvalidPeriod)
	}
	if err := validParam("alpha", opt.Alpha); err != nil {
		return nil, err
	}
	if err := validParam("beta", opt.Beta); err != nil {
		return nil, err
	}
	if err := validParam("gamma", opt.Gamma); err != nil {
		return nil, err
	}
	return &HoltWinters{opt: opt}, nil
}

type hwState struct {
	level  float64
	slope  float64
	season []float64
}

// initialStates uses the classical heuristic: the level is the first season's mean, the slope
// is the mean change between the first two seasons per step, and the seasonal terms are the
// first season's deviations from its mean.
func initialStates(y []float64, m int) hwState {
	var first, second float64
	for i := 0; i < m; i++ {
		first += y[i]
		second += y[m+i]
	}
	first /= float64(m)
	second /= float64(m)

	season := make([]float64, m)
	for i := 0; i < m; i++ {
		season[i] = y[i] - first
	}
	return hwState{
		level:  first,
		slope:  (second - first) / float64(m),
		season: season,
	}
}

// hwFilter runs the additive recursions from init, writing one step ahead predictions into
// fitted when it is non nil, and returns the final states and the squared error
func hwFilter(y []float64, m int, alpha, beta, gamma float64, init hwState, fitted []float64) (hwState, float64) {
	level, slope := init.level, init.slope
	season := copyOf(init.season)

	var total float64
	for i, v := range y {
		j := i % m
		pred := level + slope + season[j]
		if fitted != nil {
			fitted[i] = pred
		}
		diff := v - pred
		total += diff * diff

		prevLevel, prevSlope := level, slope
		level = alpha*(v-season[j]) + (1-alpha)*(prevLevel+prevSlope)
		slope = beta*(level-prevLevel) + (1-beta)*prevSlope
		season[j] = gamma*(v-prevLevel-prevSlope) + (1-gamma)*season[j]
	}
	return hwState{level: level, slope: slope, season: season}, total
}

func (hw *HoltWinters) Fit(y []float64) error {
	m := hw.opt.Period
	n := len(y)
	if n < 2*m {
		return fmt.Errorf("holt-winters needs 2 full seasons of %d points, got %d, %w", m, n, ErrInsufficientData)
	}

	init := initialStates(y, m)
	hw.alpha, hw.beta, hw.gamma = hw.opt.Alpha, hw.opt.Beta, hw.opt.Gamma
	hw.status = optimize.NotTerminated

	if hw.opt.Optimize {
		objective := func(x []float64) float64 {
			_, total := hwFilter(y, m, logistic(x[0]), logistic(x[1]), logistic(x[2]), init, nil)
			return total
		}
		start := []float64{logit(hw.alpha), logit(hw.beta), logit(hw.gamma)}
		res, err := minimize(objective, start, hw.opt.MaxEvaluations)
		if err != nil {
			return fmt.Errorf("unable to optimize holt-winters parameters, %w", err)
		}
		hw.alpha = logistic(res.X[0])
		hw.beta = logistic(res.X[1])
		hw.gamma = logistic(res.X[2])
		hw.status = res.Status
	}

	fitted := make([]float64, n)
	final, total := hwFilter(y, m, hw.alpha, hw.beta, hw.gamma, init, fitted)
	hw.level = final.level
	hw.slope = final.slope
	hw.season = final.season
	hw.n = n
	hw.fitted = fitted
	hw.sse = total
	hw.trained = true
	return nil
}

// Forecast returns l_n + k*b_n + s for the seasonal slot of each step k in [1, h]
func (hw *HoltWinters) Forecast(h int) ([]float64, error) {
	if !hw.trained {
		return nil, ErrUntrained
	}
	if h < 0 {
		return nil, ErrNegativeHorizon
	}
	m := hw.opt.Period
	res := make([]float64, h)
	for i := range res {
		res[i] = hw.level + float64(i+1)*hw.slope + hw.season[(hw.n+i)%m]
	}
	return res, nil
}

func (hw *HoltWinters) Fitted() []float64 {
	return copyOf(hw.fitted)
}

func (hw *HoltWinters) SSE() float64 {
	return hw.sse
}

// Params returns the smoothing parameters used by the final fit
func (hw *HoltWinters) Params() (float64, float64, float64) {
	return hw.alpha, hw.beta, hw.gamma
}

// Status reports how the parameter search terminated
func (hw *HoltWinters) Status() optimize.Status {
	return hw.status
}

func (hw *HoltWinters) Period() int {
	return hw.opt.Period
}
