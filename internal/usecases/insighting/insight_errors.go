package insighting

import (
	"errors"
	"fmt"
)

var (
	ErrSummarizerUnavailable = errors.New("narrative summary is not configured")
	ErrSummarize             = errors.New("error generating narrative summary")
)

// AnalysisError encapsula a falha do modelo; o chamador recebe apenas nil
type AnalysisError struct {
	Err     error
	Details string
}

func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewAnalysisError(err error, details string) *AnalysisError {
	return &AnalysisError{
		Err:     err,
		Details: details,
	}
}
