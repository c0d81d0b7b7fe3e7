package harness

import "github.com/roach88/ninjatrace/internal/chrometrace"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held and any expected error occurred.
	Pass bool `json:"pass"`

	// Events is the emitted trace. Empty when the run failed.
	Events []chrometrace.Event `json:"events"`

	Invocations int `json:"invocations"`
	Lanes       int `json:"lanes"`

	// Err is the pipeline error of a run that was expected to fail.
	Err error `json:"-"`

	// SessionID and Fingerprint identify the in-memory recording.
	SessionID   string `json:"session_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// TraceHash is a domain-separated hash of the canonical trace.
	TraceHash string `json:"trace_hash,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Events: []chrometrace.Event{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
