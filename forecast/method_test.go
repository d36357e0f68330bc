package forecast

import (
	"math"
	"testing"

	"github.com/aouyang1/go-benchcast/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestNaiveConstant(t *testing.T) {
	train := timedataset.GenerateConstY(20, 7)
	valid := timedataset.GenerateConstY(5, 7)

	res, err := Naive{}.Forecast(train, len(valid))
	require.Nil(t, err)
	assert.Equal(t, []float64{7, 7, 7, 7, 7}, res)

	rmse, err := RMSE(res, valid)
	require.Nil(t, err)
	assert.Equal(t, 0.0, rmse)
}

func TestNaiveLastValue(t *testing.T) {
	res, err := Naive{}.Forecast([]float64{1, 5, 3}, 4)
	require.Nil(t, err)
	assert.Equal(t, []float64{3, 3, 3, 3}, res)

	_, err = Naive{}.Forecast(nil, 4)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Naive{}.Forecast([]float64{1}, -1)
	assert.ErrorIs(t, err, ErrNegativeHorizon)
}

func TestMovingAverage(t *testing.T) {
	train := []float64{4, 8, 15, 16, 23, 42}

	testData := map[string]struct {
		window   int
		expected float64
	}{
		"full training length": {window: len(train), expected: stat.Mean(train, nil)},
		"last two":             {window: 2, expected: 32.5},
		"single":               {window: 1, expected: 42},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := MovingAverage{Window: td.window}.Forecast(train, 3)
			require.Nil(t, err)
			require.Len(t, res, 3)
			for _, v := range res {
				assert.InDelta(t, td.expected, v, 1e-12)
			}
		})
	}
}

func TestMovingAverageWindowTooLong(t *testing.T) {
	train := []float64{1, 2, 3}
	valid := []float64{1, 2, 3, 4}

	res, err := MovingAverage{Window: 10}.Forecast(train, len(valid))
	require.Nil(t, err)
	require.Len(t, res, len(valid))
	for _, v := range res {
		assert.True(t, math.IsNaN(v))
	}

	rmse, err := RMSE(res, valid)
	require.Nil(t, err)
	assert.True(t, math.IsNaN(rmse), "undefined average propagates into the error")
}

func TestMethodNames(t *testing.T) {
	testData := map[string]struct {
		method   Method
		expected string
	}{
		"naive":        {method: Naive{}, expected: "Naive"},
		"ma":           {method: MovingAverage{Window: 10}, expected: "Moving Average 10D"},
		"ses":          {method: SimpleExpSmoothing{Alpha: 0.1}, expected: "Simple Exp Smoothing 0.1"},
		"holt":         {method: &HoltLinear{Alpha: 0.1, Beta: 0.0001}, expected: "Holt's Linear Trend 0.0001"},
		"holt winters": {method: &HoltWinters{Period: 7}, expected: "Holt's Winter Model @@7"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.method.Name())
		})
	}
}

func TestSmoothingMethodsHorizon(t *testing.T) {
	n := 7 * 10
	train := timedataset.GenerateLinearY(n, 50, 0.2).Add(timedataset.GenerateSeasonalY(n, []float64{3, -1, 0, 2, -2, 1, -3}))
	horizon := 9

	methods := []Method{
		SimpleExpSmoothing{Alpha: 0.2},
		&HoltLinear{Alpha: 0.1, Beta: 0.0001},
		&HoltWinters{Period: 7},
	}
	for _, m := range methods {
		t.Run(m.Name(), func(t *testing.T) {
			res, err := m.Forecast(train, horizon)
			require.Nil(t, err)
			assert.Len(t, res, horizon)
			for _, v := range res {
				assert.False(t, math.IsNaN(v))
			}
		})
	}

	hw := &HoltWinters{Period: 7}
	_, err := hw.Forecast(train, horizon)
	require.Nil(t, err)
	params := hw.Params()
	assert.Equal(t, 7.0, params["period"])
	assert.NotEmpty(t, hw.Status())

	holt := &HoltLinear{Alpha: 0.1, Beta: 0.0001}
	_, err = holt.Forecast(train, horizon)
	require.Nil(t, err)
	assert.Contains(t, holt.Params(), "initial_slope")
}

func TestSimpleExpSmoothingFlat(t *testing.T) {
	res, err := SimpleExpSmoothing{Alpha: 0.6}.Forecast([]float64{10, 20, 30}, 3)
	require.Nil(t, err)
	// levels 10 -> 16 -> 24.4
	assert.InDeltaSlice(t, []float64{24.4, 24.4, 24.4}, res, 1e-12)

	_, err = SimpleExpSmoothing{Alpha: 1.5}.Forecast([]float64{1}, 1)
	assert.Error(t, err)
}
