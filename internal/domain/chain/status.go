package chain

import "fmt"

// Status is the decision state of a single stage. The string values are the
// ones persisted in the record store.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// IsValid returns true if the status is a known stage status.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Decided returns true once a reviewer has acted on the stage.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Decision is a reviewer action submitted against a stage.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision converts a string into a Decision.
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if d != DecisionApprove && d != DecisionReject {
		return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
	}
	return d, nil
}

// Status returns the stage status a decision resolves to.
func (d Decision) Status() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// String returns the string representation of the decision.
func (d Decision) String() string {
	return string(d)
}
