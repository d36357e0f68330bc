package benchcast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrSeriesLenMismatch = errors.New("series length does not match time length")

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. Each
// input y series must have the same length as the input time slice. NaN values are left as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) (*charts.Line, error) {
	if len(seriesName) != len(y) {
		return nil, fmt.Errorf("%d names for %d series, %w", len(seriesName), len(y), ErrSeriesLenMismatch)
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		if len(y[i]) != len(t) {
			return nil, fmt.Errorf("%s has %d points for %d times, %w", seriesName[i], len(y[i]), len(t), ErrSeriesLenMismatch)
		}
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: "-"})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line, nil
}

// LineResult charts the validation actuals against a single method's forecast
func (r *Report) LineResult(res Result) (*charts.Line, error) {
	if r.Valid == nil {
		return nil, ErrEmptyDataset
	}
	return LineTSeries(res.Name, []string{"Valid", "Forecast"}, r.Valid.T, [][]float64{r.Valid.Y, res.Forecast})
}

// PlotReport renders the training and validation series followed by one chart per method and
// one per submission
func (r *Report) PlotReport(w io.Writer) error {
	if r.Train == nil || r.Valid == nil {
		return ErrEmptyDataset
	}
	page := components.NewPage()

	t := make([]time.Time, 0, r.Train.Len()+r.Valid.Len())
	t = append(append(t, r.Train.T...), r.Valid.T...)
	train := append(append([]float64{}, r.Train.Y...), nanSlice(r.Valid.Len())...)
	valid := append(nanSlice(r.Train.Len()), r.Valid.Y...)
	overview, err := LineTSeries("Train and Valid", []string{"Train", "Valid"}, t, [][]float64{train, valid})
	if err != nil {
		return err
	}
	page.AddCharts(overview)

	for _, res := range r.Results {
		line, err := r.LineResult(res)
		if err != nil {
			return fmt.Errorf("unable to chart %s, %w", res.Name, err)
		}
		page.AddCharts(line)
	}

	for _, sub := range r.Submissions {
		y := make([]float64, len(sub.Rows))
		for i, row := range sub.Rows {
			y[i] = row.Count
		}
		line, err := LineTSeries("Submission "+sub.Method, []string{"Forecast"}, sub.T, [][]float64{y})
		if err != nil {
			return fmt.Errorf("unable to chart submission %s, %w", sub.Method, err)
		}
		page.AddCharts(line)
	}
	return page.Render(w)
}

// PlotDiagnostic renders the series with its rolling moments and, when available, the seasonal
// decomposition
func (d *Diagnostic) PlotDiagnostic(w io.Writer) error {
	if d.Series == nil {
		return ErrEmptyDataset
	}
	page := components.NewPage()

	rolling, err := LineTSeries(
		"Rolling Mean & Standard Deviation",
		[]string{"Original", fmt.Sprintf("Rolling Mean %d", d.RollingWindow), fmt.Sprintf("Rolling Std %d", d.RollingWindow)},
		d.Series.T,
		[][]float64{d.Series.Y, d.RollingMean, d.RollingStdDev},
	)
	if err != nil {
		return err
	}
	page.AddCharts(rolling)

	if d.Decomposition != nil {
		for _, c := range []struct {
			name string
			y    []float64
		}{
			{name: "Trend", y: d.Decomposition.Trend},
			{name: "Seasonal", y: d.Decomposition.Seasonal},
			{name: "Residual", y: d.Decomposition.Residual},
		} {
			line, err := LineTSeries(c.name, []string{c.name}, d.Series.T, [][]float64{c.y})
			if err != nil {
				return err
			}
			page.AddCharts(line)
		}
	}
	return page.Render(w)
}

func nanSlice(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = math.NaN()
	}
	return res
}
