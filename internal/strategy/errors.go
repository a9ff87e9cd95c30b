package strategy

import "fmt"

// ComputationError reports that a signal could not be derived from the computed
// values, e.g. a zero or non-finite entry price.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed: %s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
