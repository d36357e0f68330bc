package benchcast

import (
	"fmt"
	"os"

	"github.com/aouyang1/go-benchcast/dataset"
	"github.com/aouyang1/go-benchcast/forecast"
	"github.com/aouyang1/go-benchcast/stats"
	"github.com/goccy/go-json"
)

// SplitOptions are row indices into the historical series. The training prefix is
// [0, PrefixEnd) and the validation suffix is [SuffixStart, SuffixEnd] inclusive.
type SplitOptions struct {
	PrefixEnd   int `json:"prefix_end"`
	SuffixStart int `json:"suffix_start"`
	SuffixEnd   int `json:"suffix_end"`
}

func NewDefaultSplitOptions() SplitOptions {
	return SplitOptions{
		PrefixEnd:   16055,
		SuffixStart: 16056,
		SuffixEnd:   18287,
	}
}

// MethodOptions holds the fixed parameters of every evaluated method
type MethodOptions struct {
	MovingAverageWindows []int     `json:"moving_average_windows"`
	SESAlphas            []float64 `json:"ses_alphas"`
	HoltAlpha            float64   `json:"holt_alpha"`
	HoltBeta             float64   `json:"holt_beta"`
	SeasonalPeriod       int       `json:"seasonal_period"`
}

func NewDefaultMethodOptions() MethodOptions {
	return MethodOptions{
		MovingAverageWindows: []int{10, 20, 50},
		SESAlphas:            []float64{0.1, 0.2, 0.6},
		HoltAlpha:            0.1,
		HoltBeta:             0.0001,
		SeasonalPeriod:       7,
	}
}

// Methods returns fresh instances of the evaluated methods in evaluation order
func (m MethodOptions) Methods() []forecast.Method {
	methods := []forecast.Method{forecast.Naive{}}
	for _, w := range m.MovingAverageWindows {
		methods = append(methods, forecast.MovingAverage{Window: w})
	}
	for _, alpha := range m.SESAlphas {
		methods = append(methods, forecast.SimpleExpSmoothing{Alpha: alpha})
	}
	return append(methods, m.SubmissionMethods()...)
}

// SubmissionMethods returns fresh instances of the methods that are refit to produce
// submissions, holt's linear trend followed by holt-winters
func (m MethodOptions) SubmissionMethods() []forecast.Method {
	return []forecast.Method{
		&forecast.HoltLinear{Alpha: m.HoltAlpha, Beta: m.HoltBeta},
		&forecast.HoltWinters{Period: m.SeasonalPeriod},
	}
}

// SubmissionOptions configures where the submission files are written. Files are matched to
// the submission methods in order.
type SubmissionOptions struct {
	Enabled bool     `json:"enabled"`
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
}

func NewDefaultSubmissionOptions() SubmissionOptions {
	return SubmissionOptions{
		Enabled: true,
		Dir:     "submissions",
		Files:   []string{"1.csv", "2.csv"},
	}
}

// DiagnosticOptions configures the stationarity diagnostic
type DiagnosticOptions struct {
	RollingWindow   int               `json:"rolling_window"`
	DecomposePeriod int               `json:"decompose_period"`
	ADFOptions      *stats.ADFOptions `json:"adf_options"`
}

func NewDefaultDiagnosticOptions() DiagnosticOptions {
	return DiagnosticOptions{
		RollingWindow:   24,
		DecomposePeriod: 7,
		ADFOptions:      stats.NewDefaultADFOptions(),
	}
}

// Options configures a benchmark run
type Options struct {
	CSVOptions        *dataset.CSVOptions `json:"csv_options"`
	SplitOptions      SplitOptions        `json:"split_options"`
	MethodOptions     MethodOptions       `json:"method_options"`
	SubmissionOptions SubmissionOptions   `json:"submission_options"`
	DiagnosticOptions DiagnosticOptions   `json:"diagnostic_options"`
}

// NewDefaultOptions returns the options of the reference analysis
func NewDefaultOptions() *Options {
	return &Options{
		CSVOptions:        dataset.NewDefaultCSVOptions(),
		SplitOptions:      NewDefaultSplitOptions(),
		MethodOptions:     NewDefaultMethodOptions(),
		SubmissionOptions: NewDefaultSubmissionOptions(),
		DiagnosticOptions: NewDefaultDiagnosticOptions(),
	}
}

// LoadOptions reads json options from path on top of the defaults so omitted fields keep their
// default value. An empty path returns the defaults.
func LoadOptions(path string) (*Options, error) {
	opt := NewDefaultOptions()
	if path == "" {
		return opt, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read options file, %w", err)
	}
	if err := json.Unmarshal(bytes, opt); err != nil {
		return nil, fmt.Errorf("unable to parse options file %s, %w", path, err)
	}
	if opt.CSVOptions == nil {
		opt.CSVOptions = dataset.NewDefaultCSVOptions()
	}
	if opt.CSVOptions.Location == nil {
		opt.CSVOptions.Location = dataset.NewDefaultCSVOptions().Location
	}
	return opt, nil
}
