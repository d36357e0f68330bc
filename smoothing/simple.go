package smoothing

import "fmt"

// SimpleExp is simple exponential smoothing with a fixed smoothing level and no trend. The
// level starts at the first observation and every forecast step is the final level.
type SimpleExp struct {
	alpha float64

	level   float64
	fitted  []float64
	sse     float64
	trained bool
}

// NewSimpleExp returns a simple exponential smoother with smoothing level alpha in [0, 1]
func NewSimpleExp(alpha float64) (*SimpleExp, error) {
	if err := validParam("alpha", alpha); err != nil {
		return nil, err
	}
	return &SimpleExp{alpha: alpha}, nil
}

// Fit runs l_t = alpha*y_t + (1-alpha)*l_{t-1} over y with l_0 = y_0
func (s *SimpleExp) Fit(y []float64) error {
	if len(y) == 0 {
		return fmt.Errorf("simple exponential smoothing needs at least 1 point, %w", ErrInsufficientData)
	}

	fitted := make([]float64, len(y))
	level := y[0]
	for i, v := range y {
		fitted[i] = level
		level = s.alpha*v + (1-s.alpha)*level
	}

	s.level = level
	s.fitted = fitted
	s.sse = sse(y, fitted)
	s.trained = true
	return nil
}

func (s *SimpleExp) Forecast(h int) ([]float64, error) {
	if !s.trained {
		return nil, ErrUntrained
	}
	if h < 0 {
		return nil, ErrNegativeHorizon
	}
	res := make([]float64, h)
	for i := range res {
		res[i] = s.level
	}
	return res, nil
}

// Fitted returns the one step ahead predictions over the training observations
func (s *SimpleExp) Fitted() []float64 {
	return copyOf(s.fitted)
}

func (s *SimpleExp) SSE() float64 {
	return s.sse
}

func (s *SimpleExp) Alpha() float64 {
	return s.alpha
}

// Level returns the final smoothed level after fitting
func (s *SimpleExp) Level() float64 {
	return s.level
}
