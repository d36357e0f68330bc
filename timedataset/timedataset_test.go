package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				hourlyStart.Add(time.Hour),
				hourlyStart,
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"duplicate time": {
			t: []time.Time{
				hourlyStart,
				hourlyStart,
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"valid": {
			t: []time.Time{
				hourlyStart,
				hourlyStart.Add(time.Hour),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					hourlyStart,
					hourlyStart.Add(time.Hour),
				},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestSlice(t *testing.T) {
	ds := &TimeDataset{
		T: GenerateT(5, time.Hour, hourlyStart),
		Y: []float64{0, 1, 2, 3, 4},
	}

	testData := map[string]struct {
		start    int
		end      int
		expected []float64
	}{
		"interior":           {start: 1, end: 3, expected: []float64{1, 2}},
		"full range":         {start: 0, end: 5, expected: []float64{0, 1, 2, 3, 4}},
		"end past length":    {start: 3, end: 100, expected: []float64{3, 4}},
		"start past length":  {start: 10, end: 20, expected: []float64{}},
		"negative start":     {start: -3, end: 2, expected: []float64{0, 1}},
		"end before start":   {start: 3, end: 1, expected: []float64{}},
		"empty at the start": {start: 0, end: 0, expected: []float64{}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := ds.Slice(td.start, td.end)
			assert.Equal(t, td.expected, res.Y)
			assert.Len(t, res.T, len(td.expected))
		})
	}
}

func TestSplit(t *testing.T) {
	n := 18288
	y := GenerateLinearY(n, 0, 1)
	ds, err := NewUnivariateDataset(
		GenerateT(n, time.Hour, hourlyStart),
		y,
	)
	require.Nil(t, err)

	train, valid := ds.Split(16055, 16056, 18287)
	assert.Equal(t, 16055, train.Len())
	assert.Equal(t, 18287-16056+1, valid.Len())

	assert.Equal(t, 0.0, train.Y[0])
	assert.Equal(t, 16054.0, train.Y[train.Len()-1])
	assert.Equal(t, 16056.0, valid.Y[0])
	assert.Equal(t, 18287.0, valid.Y[valid.Len()-1])

	// split does not alias the source dataset
	train.Y[0] = -1
	assert.Equal(t, 0.0, ds.Y[0])
}

func TestSplitOutOfRange(t *testing.T) {
	ds, err := NewUnivariateDataset(
		GenerateT(10, time.Hour, hourlyStart),
		GenerateConstY(10, 3),
	)
	require.Nil(t, err)

	train, valid := ds.Split(16055, 16056, 18287)
	assert.Equal(t, 10, train.Len())
	assert.Equal(t, 0, valid.Len())
}
