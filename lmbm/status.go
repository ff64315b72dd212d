package lmbm

import "fmt"

// Status is a state of the optimizer's state machine.
type Status int

const (
	// StatusInitialized: the starting point has been evaluated.
	StatusInitialized Status = iota
	// StatusSeriousStep: the last line search accepted a new iterate.
	StatusSeriousStep
	// StatusNullStep: the last line search kept the iterate and enriched the
	// aggregate subgradient.
	StatusNullStep
	// StatusConverged is terminal: a stopping tolerance was met.
	StatusConverged
	// StatusBudgetExceeded is terminal: the iteration or time budget ran out
	// or the context was cancelled.
	StatusBudgetExceeded
	// StatusFailed is terminal: the line search broke down.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusSeriousStep:
		return "serious_step"
	case StatusNullStep:
		return "null_step"
	case StatusConverged:
		return "converged"
	case StatusBudgetExceeded:
		return "budget_exceeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether s ends a Minimize call.
func (s Status) Terminal() bool {
	return s >= StatusConverged
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(text string) (Status, error) {
	for s := StatusInitialized; s <= StatusFailed; s++ {
		if s.String() == text {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", text)
}
