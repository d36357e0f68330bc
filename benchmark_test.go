package benchcast

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aouyang1/go-benchcast/dataset"
	"github.com/aouyang1/go-benchcast/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testStart = time.Date(2012, 8, 25, 0, 0, 0, 0, time.UTC)

func setupSeries(n int) *timedataset.TimeDataset {
	t := timedataset.GenerateT(n, time.Hour, testStart)
	y := timedataset.GenerateLinearY(n, 20, 0.1).
		Add(timedataset.GenerateSeasonalY(n, []float64{4, -2, 1, 0, -3, 2, -2})).
		Add(timedataset.GenerateNoise(n, 0.5, 1))
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		panic(err)
	}
	return td
}

func setupUnlabeled(series *timedataset.TimeDataset, n int) *dataset.Unlabeled {
	t := timedataset.TimeSlice(series.T).Horizon(n, time.Hour)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(series.Len() + i)
	}
	return &dataset.Unlabeled{IDs: ids, T: t}
}

func setupOptions(t *testing.T) *Options {
	opt := NewDefaultOptions()
	opt.SplitOptions = SplitOptions{PrefixEnd: 150, SuffixStart: 151, SuffixEnd: 199}
	opt.SubmissionOptions.Dir = filepath.Join(t.TempDir(), "submissions")
	return opt
}

func TestBenchmarkRun(t *testing.T) {
	series := setupSeries(200)
	unlabeled := setupUnlabeled(series, 30)
	opt := setupOptions(t)

	b, err := New(opt, zap.NewNop())
	require.Nil(t, err)

	report, err := b.Run(context.Background(), &dataset.Labeled{Series: series}, unlabeled, []string{"ID", "Count"})
	require.Nil(t, err)

	assert.Equal(t, 150, report.Train.Len())
	assert.Equal(t, 49, report.Valid.Len())
	require.Len(t, report.Results, 9)
	for _, res := range report.Results {
		assert.Len(t, res.Forecast, 49, res.Name)
		require.NotNil(t, res.Scores, res.Name)
		assert.False(t, math.IsNaN(res.Scores.RMSE), res.Name)
	}
	assert.Equal(t, "Naive", report.Results[0].Name)
	assert.Equal(t, "Holt's Winter Model @@7", report.Results[8].Name)

	require.Len(t, report.Submissions, 2)
	assert.Equal(t, "Holt's Linear Trend 0.0001", report.Submissions[0].Method)
	assert.Equal(t, "Holt's Winter Model @@7", report.Submissions[1].Method)

	for i, name := range []string{"1.csv", "2.csv"} {
		sub := report.Submissions[i]
		assert.Equal(t, filepath.Join(opt.SubmissionOptions.Dir, name), sub.Path)

		f, err := os.Open(sub.Path)
		require.Nil(t, err)
		records, err := csv.NewReader(f).ReadAll()
		f.Close()
		require.Nil(t, err)

		require.Len(t, records, unlabeled.Len()+1)
		assert.Equal(t, []string{"ID", "Count"}, records[0])
		for j, id := range unlabeled.IDs {
			assert.Equal(t, id, records[j+1][0])
			_, err := strconv.ParseFloat(records[j+1][1], 64)
			assert.Nil(t, err)
		}
	}
}

func TestBenchmarkConstantSeries(t *testing.T) {
	n := 100
	td, err := timedataset.NewUnivariateDataset(
		timedataset.GenerateT(n, time.Hour, testStart),
		timedataset.GenerateConstY(n, 42),
	)
	require.Nil(t, err)

	opt := NewDefaultOptions()
	opt.SplitOptions = SplitOptions{PrefixEnd: 30, SuffixStart: 30, SuffixEnd: 99}
	opt.SubmissionOptions.Enabled = false

	b, err := New(opt, nil)
	require.Nil(t, err)
	report, err := b.Evaluate(context.Background(), td)
	require.Nil(t, err)

	byName := make(map[string]Result)
	for _, res := range report.Results {
		byName[res.Name] = res
	}

	naive := byName["Naive"]
	assert.Equal(t, timedataset.GenerateConstY(70, 42), timedataset.Series(naive.Forecast))
	assert.Equal(t, 0.0, naive.Scores.RMSE)

	// the 50 point window does not fit in a 30 point training prefix
	ma50 := byName["Moving Average 50D"]
	assert.True(t, math.IsNaN(ma50.Forecast[0]))
	assert.True(t, math.IsNaN(ma50.Scores.RMSE))
	assert.InDelta(t, 0.0, byName["Moving Average 20D"].Scores.RMSE, 1e-12)
}

func TestBenchmarkCancelled(t *testing.T) {
	b, err := New(setupOptions(t), nil)
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Evaluate(ctx, setupSeries(200))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBenchmarkErrors(t *testing.T) {
	opt := setupOptions(t)
	opt.SubmissionOptions.Files = []string{"1.csv"}
	_, err := New(opt, nil)
	assert.ErrorIs(t, err, ErrMissingSubmissionFile)

	b, err := New(setupOptions(t), nil)
	require.Nil(t, err)

	_, err = b.Run(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = b.Submit(context.Background(), setupSeries(50), nil, nil)
	assert.ErrorIs(t, err, ErrEmptyHeader)

	// holt-winters needs two full seasons
	opt = setupOptions(t)
	opt.SplitOptions = SplitOptions{PrefixEnd: 10, SuffixStart: 10, SuffixEnd: 20}
	b, err = New(opt, nil)
	require.Nil(t, err)
	_, err = b.Evaluate(context.Background(), setupSeries(50))
	assert.Error(t, err)
}

func TestBenchmarkEmptyUnlabeled(t *testing.T) {
	opt := setupOptions(t)
	b, err := New(opt, nil)
	require.Nil(t, err)

	subs, err := b.Submit(context.Background(), setupSeries(100), &dataset.Unlabeled{}, []string{"ID", "Count"})
	require.Nil(t, err)
	require.Len(t, subs, 2)
	for _, sub := range subs {
		assert.Empty(t, sub.Rows)
		bytes, err := os.ReadFile(sub.Path)
		require.Nil(t, err)
		assert.Equal(t, "ID,Count\n", string(bytes))
	}
}

func TestDiagnose(t *testing.T) {
	b, err := New(nil, nil)
	require.Nil(t, err)

	series := setupSeries(300)
	diag, err := b.Diagnose(context.Background(), series)
	require.Nil(t, err)

	assert.Len(t, diag.RollingMean, 300)
	assert.Len(t, diag.RollingStdDev, 300)
	assert.True(t, math.IsNaN(diag.RollingMean[22]))
	assert.False(t, math.IsNaN(diag.RollingMean[23]))
	require.NotNil(t, diag.ADF)
	assert.Contains(t, diag.ADF.CriticalValues, "5%")
	require.NotNil(t, diag.Decomposition)
	assert.Equal(t, 7, diag.Decomposition.Period)

	_, err = b.Diagnose(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}
