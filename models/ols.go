package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var _ Model = (*OLSRegression)(nil)

type OLSOptions struct {
	FitIntercept bool
}

func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares from the normal equations using a cholesky
// factorization, which also yields the coefficient covariance for standard errors.
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64

	stdErr []float64
	ssr    float64
	nObs   int
}

func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	if opt == nil {
		opt = NewDefaultOLSOptions()
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit regresses the m x 1 target y on the m x n design matrix x
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingArray
	}
	if y == nil {
		return ErrNoTargetArray
	}
	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}

	x = o.withIntercept(x)
	_, n := x.Dims()

	var xtx mat.SymDense
	xtx.SymOuterK(1.0, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return ErrSingularDesign
	}

	yVec := mat.NewVecDense(m, mat.Col(nil, 0, y))
	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return fmt.Errorf("unable to solve normal equations, %w", err)
	}

	var fitted, resid mat.VecDense
	fitted.MulVec(x, &beta)
	resid.SubVec(yVec, &fitted)
	o.ssr = mat.Dot(&resid, &resid)
	o.nObs = m

	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return fmt.Errorf("unable to invert normal equations, %w", err)
	}

	c := mat.Col(nil, 0, &beta)
	stdErr := make([]float64, n)
	if m > n {
		s2 := o.ssr / float64(m-n)
		for i := 0; i < n; i++ {
			stdErr[i] = math.Sqrt(s2 * cov.At(i, i))
		}
	} else {
		floats.AddConst(math.NaN(), stdErr)
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.intercept = 0
		o.coef = c
	}
	o.stdErr = stdErr
	return nil
}

func (o *OLSRegression) withIntercept(x mat.Matrix) mat.Matrix {
	if !o.opt.FitIntercept {
		return x
	}
	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	onesMx := mat.NewDense(1, m, ones)

	var xWithOnes mat.Dense
	xWithOnes.Stack(onesMx, x.T())
	return xWithOnes.T()
}

func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if o.coef == nil {
		return nil, ErrUntrainedModel
	}

	_, xn := x.Dims()
	if xn != len(o.coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, len(o.coef), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(len(o.coef), o.Coef()))
	out := mat.Col(nil, 0, &res)
	floats.AddConst(o.intercept, out)
	return out, nil
}

func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// StdErr returns the standard error of each fit parameter with the intercept first when fit
func (o *OLSRegression) StdErr() []float64 {
	s := make([]float64, len(o.stdErr))
	copy(s, o.stdErr)
	return s
}

// SSR returns the residual sum of squares of the fit
func (o *OLSRegression) SSR() float64 {
	return o.ssr
}

// NumObs returns the number of rows used in the fit
func (o *OLSRegression) NumObs() int {
	return o.nObs
}

// LogLikelihood returns the gaussian log likelihood of the fit residuals
func (o *OLSRegression) LogLikelihood() float64 {
	n := float64(o.nObs)
	return -n / 2.0 * (math.Log(2.0*math.Pi*o.ssr/n) + 1.0)
}

// AIC returns the akaike information criterion -2*llf + 2*k
func (o *OLSRegression) AIC() float64 {
	k := len(o.coef)
	if o.opt.FitIntercept {
		k++
	}
	return -2.0*o.LogLikelihood() + 2.0*float64(k)
}

// OLS fits a regression without an intercept, returning the coefficients
func OLS(x, y mat.Matrix) ([]float64, error) {
	ols, err := NewOLSRegression(&OLSOptions{FitIntercept: false})
	if err != nil {
		return nil, err
	}
	if err := ols.Fit(x, y); err != nil {
		return nil, err
	}
	return ols.Coef(), nil
}
