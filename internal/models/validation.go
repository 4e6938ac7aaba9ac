package models

type ValidationOutcome string

const (
	OutcomeValid            ValidationOutcome = "VALID"
	OutcomeSuburbNotFound   ValidationOutcome = "SUBURB_NOT_FOUND"
	OutcomePostcodeMismatch ValidationOutcome = "POSTCODE_MISMATCH"
	OutcomeUpstreamError    ValidationOutcome = "UPSTREAM_ERROR"
	OutcomeError            ValidationOutcome = "ERROR"
)

// ValidationResult is the verdict for one postcode/suburb/state triple.
type ValidationResult struct {
	Outcome ValidationOutcome `json:"outcome"`
	Message string            `json:"message"`
}

func (r ValidationResult) IsValid() bool {
	return r.Outcome == OutcomeValid
}
