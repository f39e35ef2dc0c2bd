package chain

import "testing"

// approvedThrough builds a trail with the first n stages approved.
func approvedThrough(n int) Trail {
	t := NewTrail()
	for i := 0; i < n && i < len(stageOrder); i++ {
		t = t.withRecord(stageOrder[i], StageRecord{Status: StatusApproved, Remarks: "ok"})
	}
	return t
}

func TestNewTrail_AllPending(t *testing.T) {
	trail := NewTrail()
	for _, s := range Stages() {
		record := trail.Record(s)
		if record.Status != StatusPending {
			t.Errorf("new trail %s status = %s, want Pending", s, record.Status)
		}
		if record.Remarks != "" {
			t.Errorf("new trail %s remarks = %q, want empty", s, record.Remarks)
		}
	}
}

func TestDerivedStatus(t *testing.T) {
	rejectedAt := func(n int) Trail {
		trail := approvedThrough(n)
		return trail.withRecord(stageOrder[n], StageRecord{Status: StatusRejected, Remarks: "no"})
	}

	tests := []struct {
		name     string
		trail    Trail
		expected string
	}{
		{"fresh submission", NewTrail(), "Pending Teacher"},
		{"teacher approved", approvedThrough(1), "Pending HOD"},
		{"hod approved", approvedThrough(2), "Pending Principal"},
		{"principal approved", approvedThrough(3), "Pending MD"},
		{"md approved", approvedThrough(4), "Pending Accountant"},
		{"fully approved", approvedThrough(5), "Processed"},
		{"rejected by teacher", rejectedAt(0), "Rejected by Teacher"},
		{"rejected by hod", rejectedAt(1), "Rejected by HOD"},
		{"rejected by principal", rejectedAt(2), "Rejected by Principal"},
		{"rejected by md", rejectedAt(3), "Rejected by MD"},
		{"rejected by accountant", rejectedAt(4), "Rejected by Accountant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivedStatus(tt.trail); got != tt.expected {
				t.Errorf("DerivedStatus() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTrail_Terminal(t *testing.T) {
	tests := []struct {
		name     string
		trail    Trail
		expected bool
	}{
		{"fresh submission", NewTrail(), false},
		{"mid-chain", approvedThrough(3), false},
		{"fully approved", approvedThrough(5), true},
		{"rejected early", NewTrail().withRecord(StageTeacher, StageRecord{Status: StatusRejected}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trail.Terminal(); got != tt.expected {
				t.Errorf("Trail.Terminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrail_Processed(t *testing.T) {
	if NewTrail().Processed() {
		t.Error("fresh trail should not be processed")
	}
	if !approvedThrough(5).Processed() {
		t.Error("fully approved trail should be processed")
	}
	if approvedThrough(4).Processed() {
		t.Error("trail awaiting accountant should not be processed")
	}
}

func TestTrail_ValueSemantics(t *testing.T) {
	original := NewTrail()
	updated := original.withRecord(StageTeacher, StageRecord{Status: StatusApproved, Remarks: "fine"})

	if original.Teacher.Status != StatusPending {
		t.Error("withRecord() must not mutate the receiver")
	}
	if updated.Teacher.Status != StatusApproved {
		t.Error("withRecord() must apply the new record")
	}
}
