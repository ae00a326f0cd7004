package scanning

// Decision is the outcome class of a scan attempt
type Decision string

const (
	// DecisionAccept means the scan was (or may be) recorded
	DecisionAccept Decision = "accept"
	// DecisionReject means the scan is refused and nothing is recorded
	DecisionReject Decision = "reject"
	// DecisionNeedsConfirmation means the caller must resubmit with an
	// explicit confirmation before the scan is recorded
	DecisionNeedsConfirmation Decision = "needs_confirmation"
)

// IsValid returns true if the decision is a known value
func (d Decision) IsValid() bool {
	switch d {
	case DecisionAccept, DecisionReject, DecisionNeedsConfirmation:
		return true
	default:
		return false
	}
}

// String returns the string representation of Decision
func (d Decision) String() string {
	return string(d)
}

// Verdict is the structured outcome of classifying a scan attempt.
// It is computed per attempt and never persisted.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Accepted returns true when the scan should be written to the ledger
func (v Verdict) Accepted() bool {
	return v.Decision == DecisionAccept
}
