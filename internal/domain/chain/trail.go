package chain

// StageRecord is the decision state of a single stage: its status plus the
// reviewer's remarks. Remarks are set exactly when the status is decided.
type StageRecord struct {
	Status  Status `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// Trail holds the five stage records of a reimbursement request. It is a
// value type: transitions produce a new Trail rather than mutating in place.
type Trail struct {
	Teacher    StageRecord `json:"teacher"`
	HOD        StageRecord `json:"hod"`
	Principal  StageRecord `json:"principal"`
	MD         StageRecord `json:"md"`
	Accountant StageRecord `json:"accountant"`
}

// NewTrail returns the trail of a freshly submitted request: every stage
// pending, no remarks.
func NewTrail() Trail {
	return Trail{
		Teacher:    StageRecord{Status: StatusPending},
		HOD:        StageRecord{Status: StatusPending},
		Principal:  StageRecord{Status: StatusPending},
		MD:         StageRecord{Status: StatusPending},
		Accountant: StageRecord{Status: StatusPending},
	}
}

// Record returns the stage record for the given stage.
func (t Trail) Record(s Stage) StageRecord {
	switch s {
	case StageTeacher:
		return t.Teacher
	case StageHOD:
		return t.HOD
	case StagePrincipal:
		return t.Principal
	case StageMD:
		return t.MD
	case StageAccountant:
		return t.Accountant
	}
	return StageRecord{}
}

// withRecord returns a copy of the trail with the given stage replaced.
func (t Trail) withRecord(s Stage, r StageRecord) Trail {
	switch s {
	case StageTeacher:
		t.Teacher = r
	case StageHOD:
		t.HOD = r
	case StagePrincipal:
		t.Principal = r
	case StageMD:
		t.MD = r
	case StageAccountant:
		t.Accountant = r
	}
	return t
}

// FirstRejected returns the earliest rejected stage, if any.
func (t Trail) FirstRejected() (Stage, bool) {
	for _, s := range stageOrder {
		if t.Record(s).Status == StatusRejected {
			return s, true
		}
	}
	return "", false
}

// FirstPending returns the earliest stage that is not yet approved, if any.
func (t Trail) FirstPending() (Stage, bool) {
	for _, s := range stageOrder {
		if t.Record(s).Status != StatusApproved {
			return s, true
		}
	}
	return "", false
}

// Processed returns true once all five stages are approved.
func (t Trail) Processed() bool {
	_, pending := t.FirstPending()
	return !pending
}

// Terminal returns true if no further stage decision is legal: either the
// chain is fully approved or some stage rejected it.
func (t Trail) Terminal() bool {
	if _, rejected := t.FirstRejected(); rejected {
		return true
	}
	return t.Processed()
}

// Derived status labels for the terminal all-approved state.
const StatusLabelProcessed = "Processed"

// DerivedStatus computes the human-readable overall status label from the
// stage records. It is the only legal source of the stored status column:
// the first rejected stage wins, otherwise the first stage still awaiting
// approval, otherwise the request is fully processed.
func DerivedStatus(t Trail) string {
	if s, ok := t.FirstRejected(); ok {
		return "Rejected by " + s.DisplayName()
	}
	if s, ok := t.FirstPending(); ok {
		return "Pending " + s.DisplayName()
	}
	return StatusLabelProcessed
}
