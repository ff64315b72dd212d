package report

import (
	"time"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/validity"
)

// Summary is the JSON document published alongside the tables.
type Summary struct {
	Codec            string         `json:"codec"`
	Message          string         `json:"message"`
	MaxClusters      int            `json:"max_clusters"`
	Records          int            `json:"records"`
	Features         int            `json:"features"`
	TimeLimitSeconds float64        `json:"time_limit_s"`
	MaxK             int            `json:"max_k"`
	StopReason       string         `json:"stop_reason"`
	ElapsedSeconds   float64        `json:"elapsed_s"`
	Rounds           []RoundSummary `json:"rounds"`
}

// RoundSummary describes one k.
type RoundSummary struct {
	K              int              `json:"k"`
	Objective      float64          `json:"objective"`
	Status         string           `json:"status"`
	Diagnostic     string           `json:"diagnostic,omitempty"`
	Iterations     int              `json:"iterations"`
	Evaluations    int              `json:"evaluations"`
	SeriousSteps   int              `json:"serious_steps"`
	NullSteps      int              `json:"null_steps"`
	ElapsedSeconds float64          `json:"elapsed_s"`
	Indices        validity.Indices `json:"indices"`
}

// NewSummary builds the summary of res.
func NewSummary(res *lmbclust.Result) *Summary {
	s := &Summary{
		Message:          res.Summary(),
		MaxClusters:      res.Config.MaxClusters,
		Records:          res.Config.Records,
		Features:         res.Config.Features,
		TimeLimitSeconds: res.Config.TimeLimit.Seconds(),
		MaxK:             res.MaxK(),
		StopReason:       res.StopReason.String(),
		ElapsedSeconds:   res.Elapsed.Seconds(),
		Rounds:           make([]RoundSummary, 0, len(res.Records)),
	}
	for i := range res.Records {
		rec := &res.Records[i]
		s.Rounds = append(s.Rounds, RoundSummary{
			K:              rec.K,
			Objective:      rec.Objective,
			Status:         rec.Status.String(),
			Diagnostic:     rec.Diagnostic,
			Iterations:     rec.Iterations,
			Evaluations:    rec.Evaluations,
			SeriousSteps:   rec.SeriousSteps,
			NullSteps:      rec.NullSteps,
			ElapsedSeconds: rec.Elapsed.Seconds(),
			Indices:        rec.Indices,
		})
	}
	return s
}

// Elapsed returns the run wall time.
func (s *Summary) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds * float64(time.Second))
}
