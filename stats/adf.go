package stats

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/aouyang1/go-benchcast/forecast/util"
	"github.com/aouyang1/go-benchcast/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Autolag selects how the number of lagged differences is chosen
type Autolag string

const (
	// AutolagAIC picks the lag minimizing the akaike information criterion
	AutolagAIC Autolag = "AIC"
	// AutolagNone uses the maximum lag as is
	AutolagNone Autolag = ""
)

// critical value response surface coefficients for a regression with a constant and a single
// series, b0 + b1/n + b2/n^2 + b3/n^3 (MacKinnon 2010)
var adfCritSurface = []struct {
	level string
	coef  [4]float64
}{
	{level: "1%", coef: [4]float64{-3.43035, -6.5393, -16.786, -79.433}},
	{level: "5%", coef: [4]float64{-2.86154, -2.8903, -4.234, -40.040}},
	{level: "10%", coef: [4]float64{-2.56677, -1.5384, -2.809, 0}},
}

// approximate asymptotic p-value surface with a constant (MacKinnon 1994)
const (
	adfMaxStat  = 2.74
	adfMinStat  = -18.83
	adfStarStat = -1.61
)

var (
	adfSmallP = []float64{2.1659, 1.4412, 0.038269}
	adfLargeP = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

// ADFOptions configures the unit root test. A MaxLag of -1 uses 12*(n/100)^(1/4) rounded up.
type ADFOptions struct {
	MaxLag  int     `json:"max_lag"`
	Autolag Autolag `json:"autolag"`
}

func NewDefaultADFOptions() *ADFOptions {
	return &ADFOptions{
		MaxLag:  -1,
		Autolag: AutolagAIC,
	}
}

// ADFResult is the outcome of the augmented dickey-fuller test. The null hypothesis is a unit
// root so a small p-value suggests the series is stationary.
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	UsedLag        int                `json:"used_lag"`
	NObs           int                `json:"nobs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	ICBest         float64            `json:"ic_best"`
}

// ADF runs the augmented dickey-fuller test with a constant,
// dy_t = c + g*y_{t-1} + sum_i d_i*dy_{t-i} + e_t, reporting the t-statistic of g
func ADF(y []float64, opt *ADFOptions) (*ADFResult, error) {
	if opt == nil {
		opt = NewDefaultADFOptions()
	}
	n := len(y)
	if n < 4 {
		return nil, fmt.Errorf("adf needs at least 4 points, got %d, %w", n, ErrInsufficientData)
	}

	maxLag := opt.MaxLag
	if maxLag < -1 {
		return nil, fmt.Errorf("max lag of %d, %w", maxLag, ErrInvalidLag)
	}
	if maxLag == -1 {
		maxLag = int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
		// leave enough observations for the regression with a constant
		maxLag = min(maxLag, n/2-2)
		if maxLag < 0 {
			return nil, fmt.Errorf("sample of %d points is too short to choose a lag, %w", n, ErrInsufficientData)
		}
	} else if maxLag > n/2-2 {
		return nil, fmt.Errorf("max lag %d must be below %d for %d points, %w", maxLag, n/2-1, n, ErrInsufficientData)
	}

	dy := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dy[i-1] = y[i] - y[i-1]
	}

	usedLag := maxLag
	icBest := math.NaN()
	switch opt.Autolag {
	case AutolagAIC:
		// every candidate is fit on the sample trimmed for the largest lag so the criteria compare
		bestLag := 0
		for lag := 0; lag <= maxLag; lag++ {
			ols, err := adfRegression(y, dy, lag, maxLag)
			if err != nil {
				return nil, err
			}
			if aic := ols.AIC(); math.IsNaN(icBest) || aic < icBest {
				icBest = aic
				bestLag = lag
			}
		}
		usedLag = bestLag
	case AutolagNone:
	default:
		return nil, fmt.Errorf("%s, %w", opt.Autolag, ErrUnknownAutolag)
	}

	ols, err := adfRegression(y, dy, usedLag, usedLag)
	if err != nil {
		return nil, err
	}
	coef := ols.Coef()
	stdErr := ols.StdErr()

	// standard errors are ordered with the intercept first
	statistic := coef[0] / stdErr[1]
	nobs := ols.NumObs()

	crit := make(map[string]float64, len(adfCritSurface))
	for _, c := range adfCritSurface {
		crit[c.level] = polyval(c.coef[:], 1.0/float64(nobs))
	}

	return &ADFResult{
		Statistic:      statistic,
		PValue:         MacKinnonPValue(statistic),
		UsedLag:        usedLag,
		NObs:           nobs,
		CriticalValues: crit,
		ICBest:         icBest,
	}, nil
}

// adfRegression regresses dy_t on [y_{t-1}, dy_{t-1}, ..., dy_{t-lag}] with an intercept using the
// observations available after trimming trim leading differences
func adfRegression(y, dy []float64, lag, trim int) (*models.OLSRegression, error) {
	nobs := len(dy) - trim
	if nobs <= lag+2 {
		return nil, fmt.Errorf("lag %d leaves %d observations, %w", lag, nobs, ErrInsufficientData)
	}

	x := mat.NewDense(nobs, lag+1, nil)
	target := make([]float64, nobs)
	for i := 0; i < nobs; i++ {
		t := trim + i
		target[i] = dy[t]
		x.Set(i, 0, y[t])
		for j := 1; j <= lag; j++ {
			x.Set(i, j, dy[t-j])
		}
	}

	ols, err := models.NewOLSRegression(&models.OLSOptions{FitIntercept: true})
	if err != nil {
		return nil, err
	}
	if err := ols.Fit(x, mat.NewDense(nobs, 1, target)); err != nil {
		return nil, fmt.Errorf("unable to fit adf regression with lag %d, %w", lag, err)
	}
	return ols, nil
}

// MacKinnonPValue approximates the p-value of a dickey-fuller statistic for a regression with a
// constant
func MacKinnonPValue(statistic float64) float64 {
	switch {
	case math.IsNaN(statistic):
		return math.NaN()
	case statistic > adfMaxStat:
		return 1.0
	case statistic < adfMinStat:
		return 0.0
	}
	coef := adfLargeP
	if statistic <= adfStarStat {
		coef = adfSmallP
	}
	return distuv.UnitNormal.CDF(polyval(coef, statistic))
}

// polyval evaluates c[0] + c[1]*x + c[2]*x^2 + ...
func polyval(c []float64, x float64) float64 {
	var res float64
	for i := len(c) - 1; i >= 0; i-- {
		res = res*x + c[i]
	}
	return res
}

func (r ADFResult) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sDickey-Fuller Test:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	rows := [][2]string{
		{"Test Statistic", fmt.Sprintf("%.6f", r.Statistic)},
		{"p-value", fmt.Sprintf("%.6f", r.PValue)},
		{"#Lags Used", fmt.Sprintf("%d", r.UsedLag)},
		{"Number of Observations Used", fmt.Sprintf("%d", r.NObs)},
	}
	for _, c := range adfCritSurface {
		rows = append(rows, [2]string{fmt.Sprintf("Critical Value (%s)", c.level), fmt.Sprintf("%.6f", r.CriticalValues[c.level])})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t\n", prefix, util.IndentExpand(indent, 1), row[0], row[1]); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
