package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// Scores tracks the error of a forecast against the held out observations
type Scores struct {
	RMSE float64 `json:"root_mean_squared_error"`
	MSE  float64 `json:"mean_squared_error"`
	MAE  float64 `json:"mean_absolute_error"`
	MAPE float64 `json:"mean_average_percent_error"`
}

// NewScores calculates the scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}

	return &Scores{
		RMSE: math.Sqrt(mse),
		MSE:  mse,
		MAE:  mae,
		MAPE: mape,
	}, nil
}

// RMSE computes the root mean squared error. NaNs in either input propagate into the result
// and an empty input is NaN. A score of 0 means a perfect match with no errors.
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MSE computes the mean squared error, sum((y-yhat)^2)/n. NaNs propagate.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return math.NaN(), nil
	}

	dist := floats.Distance(actual, predicted, 2)
	return dist * dist / float64(len(actual)), nil
}

// MAE computes the mean absolute error, sum(abs(y-yhat))/n. NaNs propagate.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return math.NaN(), nil
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual)), nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y)).
// Points with a NaN or a zero actual value are skipped.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape, nil
}
