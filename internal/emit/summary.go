package emit

// Outcome classifies the result of one delivery run.
type Outcome string

const (
	Succeeded       Outcome = "succeeded"
	PartiallyFailed Outcome = "partially_failed"
	Failed          Outcome = "failed"
)

// SendFailure records one event that could not be delivered.
type SendFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Summary aggregates per-event delivery results for one run.
type Summary struct {
	RunID    string        `json:"run_id"`
	Total    int           `json:"total"`
	Sent     int           `json:"sent"`
	Failed   int           `json:"failed"`
	Failures []SendFailure `json:"failures,omitempty"`
}

// Outcome reports the run state: Succeeded when every attempted send worked,
// PartiallyFailed when some did, Failed when none did.
func (s Summary) Outcome() Outcome {
	switch {
	case s.Failed == 0:
		return Succeeded
	case s.Sent > 0:
		return PartiallyFailed
	default:
		return Failed
	}
}
