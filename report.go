package benchcast

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-benchcast/forecast"
	"github.com/aouyang1/go-benchcast/forecast/util"
	"github.com/aouyang1/go-benchcast/resultstore"
	"github.com/aouyang1/go-benchcast/submission"
	"github.com/aouyang1/go-benchcast/timedataset"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Result is the validation error of a single method
type Result struct {
	Name     string             `json:"name"`
	Params   map[string]float64 `json:"params"`
	Forecast []float64          `json:"-"`
	Scores   *forecast.Scores   `json:"scores"`
}

// Submission records a written submission file
type Submission struct {
	Method string             `json:"method"`
	Params map[string]float64 `json:"params"`
	Path   string             `json:"path"`
	T      []time.Time        `json:"-"`
	Rows   []submission.Row   `json:"-"`
}

// Report collects the results of a run in evaluation order. Duplicate method names are kept.
type Report struct {
	RunID       uuid.UUID    `json:"run_id"`
	CreatedAt   time.Time    `json:"created_at"`
	Results     []Result     `json:"results"`
	Submissions []Submission `json:"submissions"`

	Train *timedataset.TimeDataset `json:"-"`
	Valid *timedataset.TimeDataset `json:"-"`
}

// Ranked returns a copy of the results ordered by ascending RMSE with undefined scores last.
// Ties keep their evaluation order.
func (r *Report) Ranked() []Result {
	ranked := make([]Result, len(r.Results))
	copy(ranked, r.Results)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := rmseOf(ranked[i]), rmseOf(ranked[j])
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a < b
	})
	return ranked
}

func rmseOf(res Result) float64 {
	if res.Scores == nil {
		return math.NaN()
	}
	return res.Scores.RMSE
}

func (r *Report) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sRun: %s\n", prefix, util.IndentExpand(indent, 0), r.RunID); err != nil {
		return err
	}
	if r.Train != nil && r.Valid != nil {
		if _, err := fmt.Fprintf(w, "%s%sTrain: %d, Valid: %d\n", prefix, util.IndentExpand(indent, 1), r.Train.Len(), r.Valid.Len()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sResults:\n", prefix, util.IndentExpand(indent, 1)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sMethod\tRMSE\tMAE\tMAPE\t\n", prefix, util.IndentExpand(indent, 2)); err != nil {
		return err
	}
	for _, res := range r.Results {
		rmse, mae, mape := math.NaN(), math.NaN(), math.NaN()
		if res.Scores != nil {
			rmse, mae, mape = res.Scores.RMSE, res.Scores.MAE, res.Scores.MAPE
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.3f\t%.3f\t%.3f\t\n",
			prefix, util.IndentExpand(indent, 2),
			res.Name, rmse, mae, mape); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if len(r.Submissions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sSubmissions:\n", prefix, util.IndentExpand(indent, 1)); err != nil {
		return err
	}
	for _, sub := range r.Submissions {
		if _, err := fmt.Fprintf(w, "%s%s%s: %s (%d rows)\n", prefix, util.IndentExpand(indent, 2), sub.Method, sub.Path, len(sub.Rows)); err != nil {
			return err
		}
	}
	return nil
}

type jsonScores struct {
	RMSE *float64 `json:"root_mean_squared_error"`
	MSE  *float64 `json:"mean_squared_error"`
	MAE  *float64 `json:"mean_absolute_error"`
	MAPE *float64 `json:"mean_average_percent_error"`
}

type jsonResult struct {
	Name   string              `json:"name"`
	Params map[string]*float64 `json:"params"`
	Scores *jsonScores         `json:"scores"`
}

type jsonSubmission struct {
	Method string              `json:"method"`
	Params map[string]*float64 `json:"params"`
	Path   string              `json:"path"`
}

type jsonReport struct {
	RunID       uuid.UUID    `json:"run_id"`
	CreatedAt   time.Time    `json:"created_at"`
	NumTrain    int          `json:"num_train"`
	NumValid    int          `json:"num_valid"`
	Results     []jsonResult     `json:"results"`
	Submissions []jsonSubmission `json:"submissions"`
}

// json has no NaN so undefined scores are written as null
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullableParams(params map[string]float64) map[string]*float64 {
	out := make(map[string]*float64, len(params))
	for k, v := range params {
		out[k] = nullable(v)
	}
	return out
}

// WriteJSON writes the report as indented json
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		RunID:       r.RunID,
		CreatedAt:   r.CreatedAt,
		NumTrain:    r.Train.Len(),
		NumValid:    r.Valid.Len(),
		Results:     make([]jsonResult, 0, len(r.Results)),
		Submissions: make([]jsonSubmission, 0, len(r.Submissions)),
	}
	for _, res := range r.Results {
		jr := jsonResult{Name: res.Name, Params: nullableParams(res.Params)}
		if res.Scores != nil {
			jr.Scores = &jsonScores{
				RMSE: nullable(res.Scores.RMSE),
				MSE:  nullable(res.Scores.MSE),
				MAE:  nullable(res.Scores.MAE),
				MAPE: nullable(res.Scores.MAPE),
			}
		}
		out.Results = append(out.Results, jr)
	}
	for _, sub := range r.Submissions {
		out.Submissions = append(out.Submissions, jsonSubmission{
			Method: sub.Method,
			Params: nullableParams(sub.Params),
			Path:   sub.Path,
		})
	}

	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode report, %w", err)
	}
	_, err = w.Write(bytes)
	return err
}

// WriteJSONFile writes the report as indented json to path
func (r *Report) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create report file, %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// StoreRecords converts the report into the run and records persisted by the result store
func (r *Report) StoreRecords() (resultstore.Run, []resultstore.Record) {
	run := resultstore.Run{
		ID:        r.RunID,
		CreatedAt: r.CreatedAt,
		NumTrain:  r.Train.Len(),
		NumValid:  r.Valid.Len(),
	}
	records := make([]resultstore.Record, 0, len(r.Results))
	for i, res := range r.Results {
		rec := resultstore.Record{
			Position: i,
			Method:   res.Name,
			Params:   res.Params,
			RMSE:     math.NaN(),
			MSE:      math.NaN(),
			MAE:      math.NaN(),
			MAPE:     math.NaN(),
		}
		if res.Scores != nil {
			rec.RMSE = res.Scores.RMSE
			rec.MSE = res.Scores.MSE
			rec.MAE = res.Scores.MAE
			rec.MAPE = res.Scores.MAPE
		}
		records = append(records, rec)
	}
	return run, records
}
