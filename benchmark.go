// Package benchcast compares forecasting methods on a held out validation segment of an hourly
// series and writes submissions for the methods that are refit on the full history.
package benchcast

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aouyang1/go-benchcast/dataset"
	"github.com/aouyang1/go-benchcast/forecast"
	"github.com/aouyang1/go-benchcast/stats"
	"github.com/aouyang1/go-benchcast/submission"
	"github.com/aouyang1/go-benchcast/timedataset"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyDataset          = errors.New("no dataset or uninitialized")
	ErrMissingSubmissionFile = errors.New("no submission file configured for method")
	ErrEmptyHeader           = errors.New("no submission header")
)

// Benchmark runs the evaluation harness
type Benchmark struct {
	opt    *Options
	logger *zap.Logger
}

// New creates a benchmark using the provided options. If no options are provided the defaults
// are used and a nil logger discards all logs.
func New(opt *Options, logger *zap.Logger) (*Benchmark, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opt.SubmissionOptions.Enabled && len(opt.SubmissionOptions.Files) < len(opt.MethodOptions.SubmissionMethods()) {
		return nil, fmt.Errorf("got %d submission files, %w", len(opt.SubmissionOptions.Files), ErrMissingSubmissionFile)
	}
	return &Benchmark{
		opt:    opt,
		logger: logger,
	}, nil
}

// Run evaluates every method on the validation split and then writes the submissions over the
// unlabelled table
func (b *Benchmark) Run(ctx context.Context, labeled *dataset.Labeled, unlabeled *dataset.Unlabeled, header []string) (*Report, error) {
	if labeled == nil || labeled.Series == nil {
		return nil, ErrEmptyDataset
	}
	report, err := b.Evaluate(ctx, labeled.Series)
	if err != nil {
		return nil, err
	}
	if !b.opt.SubmissionOptions.Enabled {
		return report, nil
	}

	subs, err := b.Submit(ctx, labeled.Series, unlabeled, header)
	if err != nil {
		return nil, err
	}
	report.Submissions = subs
	return report, nil
}

// Evaluate splits the series and forecasts the validation segment with every method, recording
// each error in evaluation order
func (b *Benchmark) Evaluate(ctx context.Context, series *timedataset.TimeDataset) (*Report, error) {
	if series == nil {
		return nil, ErrEmptyDataset
	}
	split := b.opt.SplitOptions
	train, valid := series.Split(split.PrefixEnd, split.SuffixStart, split.SuffixEnd)

	report := &Report{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Train:     train,
		Valid:     valid,
	}
	b.logger.Info("split series",
		zap.String("run_id", report.RunID.String()),
		zap.Int("train", train.Len()),
		zap.Int("valid", valid.Len()),
	)

	for _, method := range b.opt.MethodOptions.Methods() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := b.evaluate(method, train, valid)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, *res)
	}
	return report, nil
}

func (b *Benchmark) evaluate(method forecast.Method, train, valid *timedataset.TimeDataset) (*Result, error) {
	start := time.Now()
	predicted, err := method.Forecast(train.Y, valid.Len())
	if err != nil {
		return nil, fmt.Errorf("unable to forecast with %s, %w", method.Name(), err)
	}
	scores, err := forecast.NewScores(predicted, valid.Y)
	if err != nil {
		return nil, fmt.Errorf("unable to score %s, %w", method.Name(), err)
	}

	b.logger.Info("evaluated method",
		zap.String("method", method.Name()),
		zap.Float64("rmse", scores.RMSE),
		zap.Duration("elapsed", time.Since(start)),
	)
	if hw, ok := method.(*forecast.HoltWinters); ok {
		b.logger.Debug("holt-winters search", zap.String("status", hw.Status()), zap.Any("params", hw.Params()))
	}

	return &Result{
		Name:     method.Name(),
		Params:   method.Params(),
		Forecast: predicted,
		Scores:   scores,
	}, nil
}

// Submit refits the submission methods on the complete historical series and writes one file
// per method with a row for each id of the unlabelled table
func (b *Benchmark) Submit(ctx context.Context, series *timedataset.TimeDataset, unlabeled *dataset.Unlabeled, header []string) ([]Submission, error) {
	if series == nil {
		return nil, ErrEmptyDataset
	}
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}
	b.checkContinuation(series, unlabeled)

	horizon := unlabeled.Len()
	var ids []string
	if unlabeled != nil {
		ids = unlabeled.IDs
	}

	methods := b.opt.MethodOptions.SubmissionMethods()
	subs := make([]Submission, 0, len(methods))
	for i, method := range methods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		predicted, err := method.Forecast(series.Y, horizon)
		if err != nil {
			return nil, fmt.Errorf("unable to refit %s, %w", method.Name(), err)
		}
		rows, err := submission.Build(ids, predicted)
		if err != nil {
			return nil, fmt.Errorf("unable to build submission for %s, %w", method.Name(), err)
		}

		path := filepath.Join(b.opt.SubmissionOptions.Dir, b.opt.SubmissionOptions.Files[i])
		if err := submission.WriteFile(path, header, rows); err != nil {
			return nil, err
		}
		b.logger.Info("wrote submission", zap.String("method", method.Name()), zap.String("path", path), zap.Int("rows", len(rows)))

		var t []time.Time
		if unlabeled != nil {
			t = unlabeled.T
		}
		subs = append(subs, Submission{
			Method: method.Name(),
			Params: method.Params(),
			Path:   path,
			T:      t,
			Rows:   rows,
		})
	}
	return subs, nil
}

// checkContinuation warns when the unlabelled timestamps do not start one interval after the
// end of the history
func (b *Benchmark) checkContinuation(series *timedataset.TimeDataset, unlabeled *dataset.Unlabeled) {
	if unlabeled.Len() == 0 || len(unlabeled.T) == 0 {
		b.logger.Warn("unlabeled table is empty, submissions will only carry the header")
		return
	}
	ts := timedataset.TimeSlice(series.T)
	freq, err := ts.EstimateFreq()
	if err != nil {
		b.logger.Warn("unable to estimate series frequency", zap.Error(err))
		return
	}
	if next := ts.Horizon(1, freq)[0]; !next.Equal(unlabeled.T[0]) {
		b.logger.Warn("unlabeled table does not continue the history",
			zap.Time("expected", next),
			zap.Time("got", unlabeled.T[0]),
		)
	}
}

// Diagnostic holds the stationarity diagnostics of a series
type Diagnostic struct {
	Series        *timedataset.TimeDataset
	RollingWindow int
	RollingMean   []float64
	RollingStdDev []float64
	ADF           *stats.ADFResult
	Decomposition *stats.Decomposition
}

// Diagnose computes the rolling moments, the dickey-fuller test, and the seasonal decomposition
// of the series. The results are informational only.
func (b *Benchmark) Diagnose(ctx context.Context, series *timedataset.TimeDataset) (*Diagnostic, error) {
	if series == nil {
		return nil, ErrEmptyDataset
	}
	dopt := b.opt.DiagnosticOptions

	diag := &Diagnostic{
		Series:        series,
		RollingWindow: dopt.RollingWindow,
		RollingMean:   stats.RollingMean(series.Y, dopt.RollingWindow),
		RollingStdDev: stats.RollingStdDev(series.Y, dopt.RollingWindow),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	adf, err := stats.ADF(series.Y, dopt.ADFOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to run dickey-fuller test, %w", err)
	}
	diag.ADF = adf
	b.logger.Info("dickey-fuller test",
		zap.Float64("statistic", adf.Statistic),
		zap.Float64("p_value", adf.PValue),
		zap.Int("used_lag", adf.UsedLag),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decomp, err := stats.Decompose(series.Y, dopt.DecomposePeriod)
	if err != nil {
		// a short series still gets the remaining diagnostics
		b.logger.Warn("skipping decomposition", zap.Error(err))
		return diag, nil
	}
	diag.Decomposition = decomp
	return diag, nil
}
