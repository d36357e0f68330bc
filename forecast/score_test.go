package forecast

import (
	"math"
	"testing"

	"github.com/aouyang1/go-benchcast/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMSE(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
		err       error
	}{
		"perfect match": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  0,
		},
		"constant offset": {
			predicted: []float64{2, 3, 4},
			actual:    []float64{1, 2, 3},
			expected:  1,
		},
		"mixed": {
			predicted: []float64{0, 0, 0, 0},
			actual:    []float64{1, -1, 3, -3},
			expected:  math.Sqrt(5),
		},
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := RMSE(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, res, 1e-12)
		})
	}
}

func TestRMSENaN(t *testing.T) {
	res, err := RMSE([]float64{math.NaN(), 1}, []float64{1, 1})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(res), "nan predictions propagate")

	res, err = RMSE([]float64{1, 1}, []float64{1, math.NaN()})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(res), "nan actuals propagate")

	res, err = RMSE(nil, nil)
	require.Nil(t, err)
	assert.True(t, math.IsNaN(res), "empty input is undefined")
}

func TestRMSESymmetric(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		a := timedataset.GenerateNoise(100, 5, seed)
		b := timedataset.GenerateNoise(100, 3, seed+100)

		ab, err := RMSE(a, b)
		require.Nil(t, err)
		ba, err := RMSE(b, a)
		require.Nil(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestNewScores(t *testing.T) {
	scores, err := NewScores([]float64{2, 2, 6}, []float64{1, 2, 4})
	require.Nil(t, err)

	assert.InDelta(t, 5.0/3.0, scores.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), scores.RMSE, 1e-12)
	assert.InDelta(t, 1.0, scores.MAE, 1e-12)
	assert.InDelta(t, (1.0+0+0.5)/3.0, scores.MAPE, 1e-12)

	_, err = NewScores([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrResLenMismatch)
}

func TestMAPESkipsZeroActuals(t *testing.T) {
	res, err := MAPE([]float64{1, 2}, []float64{0, 4})
	require.Nil(t, err)
	assert.InDelta(t, 0.25, res, 1e-12)
}
