package lmbclust

import (
	"fmt"
	"time"

	"github.com/hupe1980/lmbclust/lmbm"
	"github.com/hupe1980/lmbclust/validity"
)

// Config is the immutable run configuration.
type Config struct {
	// MaxClusters is the largest cluster count K to compute.
	MaxClusters int
	// Records is the expected number of records n.
	Records int
	// Features is the expected number of features d.
	Features int
	// TimeLimit is the global wall-clock budget. Zero computes only k = 1.
	TimeLimit time.Duration
}

// DefaultConfig returns the default cluster count and time budget. Records
// and Features must be set by the caller.
func DefaultConfig() Config {
	return Config{
		MaxClusters: 25,
		TimeLimit:   72000 * time.Second,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	switch {
	case c.MaxClusters < 1:
		return &InvalidConfigError{Field: "MaxClusters", Value: c.MaxClusters, Reason: "must be at least 1"}
	case c.Records < 1:
		return &InvalidConfigError{Field: "Records", Value: c.Records, Reason: "must be at least 1"}
	case c.Features < 1:
		return &InvalidConfigError{Field: "Features", Value: c.Features, Reason: "must be at least 1"}
	case c.TimeLimit < 0:
		return &InvalidConfigError{Field: "TimeLimit", Value: c.TimeLimit, Reason: "must not be negative"}
	}
	return nil
}

// StopReason tells why the outer loop ended.
type StopReason int

const (
	// StopMaxClusters: k reached MaxClusters.
	StopMaxClusters StopReason = iota
	// StopTimeLimit: the global budget was spent before the next k.
	StopTimeLimit
	// StopCanceled: the context was cancelled.
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopMaxClusters:
		return "max_clusters"
	case StopTimeLimit:
		return "time_limit"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ParseStopReason is the inverse of StopReason.String.
func ParseStopReason(text string) (StopReason, error) {
	for r := StopMaxClusters; r <= StopCanceled; r++ {
		if r.String() == text {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown stop reason %q", text)
}

// ResultRecord is the outcome of one cluster count k.
type ResultRecord struct {
	K            int
	Objective    float64
	Indices      validity.Indices
	Elapsed      time.Duration
	Status       lmbm.Status
	Iterations   int
	Evaluations  int
	SeriousSteps int
	NullSteps    int
	Diagnostic   string
	// Centers holds the k centers row-major (k×d).
	Centers []float64
}

// Center returns center j of the record.
func (r *ResultRecord) Center(j int) []float64 {
	d := len(r.Centers) / r.K
	return r.Centers[j*d : (j+1)*d : (j+1)*d]
}

// Result is the outcome of Run. Records is ordered by k, starting at 1.
type Result struct {
	Config     Config
	Records    []ResultRecord
	StopReason StopReason
	Elapsed    time.Duration
}

// MaxK returns the highest completed cluster count, 0 if none.
func (r *Result) MaxK() int {
	if len(r.Records) == 0 {
		return 0
	}
	return r.Records[len(r.Records)-1].K
}

// Last returns the record of the highest completed k, nil if none.
func (r *Result) Last() *ResultRecord {
	if len(r.Records) == 0 {
		return nil
	}
	return &r.Records[len(r.Records)-1]
}

// Summary returns the completion message: the highest k reached and the
// reason the run stopped.
func (r *Result) Summary() string {
	if len(r.Records) == 0 {
		return fmt.Sprintf("clustering stopped before k=1 (%s)", r.StopReason)
	}
	last := r.Last()
	return fmt.Sprintf("clustering completed up to k=%d of %d (%s), objective %g",
		last.K, r.Config.MaxClusters, r.StopReason, last.Objective)
}
