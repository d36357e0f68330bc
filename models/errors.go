package models

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrNoTrainingArray    = errors.New("no training array")
	ErrNoTargetArray      = errors.New("no target array")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrSingularDesign     = errors.New("design matrix is rank deficient")
	ErrUntrainedModel     = errors.New("model has not been fit")
)
