package model

import "time"

// File outcome statuses in a batch report.
const (
	OutcomeWritten  = "written"
	OutcomeFailed   = "failed"
	OutcomeDropped  = "dropped"
	OutcomeDeferred = "deferred"
)

// FileOutcome records what happened to one input file. Every input yields
// exactly one outcome entry; nothing is silently unaccounted for.
type FileOutcome struct {
	Path     string        `json:"path"`
	Status   string        `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Entities int           `json:"entities"`
	Facts    int           `json:"facts"`
	Duration time.Duration `json:"duration_ns"`
}

// Report summarizes one batch run.
type Report struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Files      []FileOutcome `json:"files"`
	Processed  int           `json:"processed"`
	Failed     int           `json:"failed"`
	Dropped    int           `json:"dropped"`
}

// Add appends an outcome and updates the counters.
func (r *Report) Add(o FileOutcome) {
	r.Files = append(r.Files, o)
	switch o.Status {
	case OutcomeWritten:
		r.Processed++
	case OutcomeFailed:
		r.Failed++
	case OutcomeDropped:
		r.Dropped++
	}
}
