package chain

import (
	"errors"
	"testing"
)

func TestCanDecide(t *testing.T) {
	tests := []struct {
		name    string
		trail   Trail
		stage   Stage
		wantErr error
	}{
		{"teacher on fresh request", NewTrail(), StageTeacher, nil},
		{"hod before teacher", NewTrail(), StageHOD, ErrInvalidTransition},
		{"accountant before md", approvedThrough(3), StageAccountant, ErrInvalidTransition},
		{"hod after teacher approval", approvedThrough(1), StageHOD, nil},
		{"accountant with full prefix", approvedThrough(4), StageAccountant, nil},
		{"already decided stage", approvedThrough(1), StageTeacher, ErrInvalidTransition},
		{"after rejection", NewTrail().withRecord(StageTeacher, StageRecord{Status: StatusRejected}), StageHOD, ErrInvalidTransition},
		{"unknown stage", NewTrail(), Stage("clerk"), ErrInvalidStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDecide(tt.trail, tt.stage)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CanDecide() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanDecide() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApply_Approve(t *testing.T) {
	trail, outcome, err := Apply(NewTrail(), StageTeacher, DecisionApprove, "documents verified")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if trail.Teacher.Status != StatusApproved {
		t.Errorf("teacher status = %s, want Approved", trail.Teacher.Status)
	}
	if trail.Teacher.Remarks != "documents verified" {
		t.Errorf("teacher remarks = %q, want %q", trail.Teacher.Remarks, "documents verified")
	}
	if got := DerivedStatus(trail); got != "Pending HOD" {
		t.Errorf("DerivedStatus() = %q, want %q", got, "Pending HOD")
	}

	if outcome.FinalReport {
		t.Error("teacher approval must not trigger the final report")
	}
	if len(outcome.Targets) != 1 {
		t.Fatalf("outcome targets = %d, want 1", len(outcome.Targets))
	}
	target := outcome.Targets[0]
	if target.Role != "HOD" || !target.DepartmentScoped {
		t.Errorf("teacher approval should route to department HOD, got %+v", target)
	}
	if target.Template != TemplateAwaitingReview {
		t.Errorf("template = %s, want %s", target.Template, TemplateAwaitingReview)
	}
}

func TestApply_RoutingTable(t *testing.T) {
	tests := []struct {
		stage      Stage
		notifyRole string
		deptScoped bool
	}{
		{StageTeacher, "HOD", true},
		{StageHOD, "Principal", false},
		{StagePrincipal, "MD", false},
		{StageMD, "Accountant", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			_, outcome, err := Apply(approvedThrough(tt.stage.Ordinal()), tt.stage, DecisionApprove, "ok")
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if len(outcome.Targets) != 1 {
				t.Fatalf("outcome targets = %d, want 1", len(outcome.Targets))
			}
			target := outcome.Targets[0]
			if target.Role != tt.notifyRole {
				t.Errorf("notify role = %s, want %s", target.Role, tt.notifyRole)
			}
			if target.DepartmentScoped != tt.deptScoped {
				t.Errorf("department scoped = %v, want %v", target.DepartmentScoped, tt.deptScoped)
			}
			if outcome.FinalReport {
				t.Error("mid-chain approval must not trigger the final report")
			}
		})
	}
}

func TestApply_FinalApproval(t *testing.T) {
	trail, outcome, err := Apply(approvedThrough(4), StageAccountant, DecisionApprove, "paid")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if got := DerivedStatus(trail); got != "Processed" {
		t.Errorf("DerivedStatus() = %q, want Processed", got)
	}
	if !outcome.FinalReport {
		t.Error("accountant approval must trigger the final report")
	}
	if len(outcome.Targets) != 2 {
		t.Fatalf("outcome targets = %d, want 2", len(outcome.Targets))
	}

	if !outcome.Targets[0].Requester || outcome.Targets[0].Template != TemplateProcessed {
		t.Errorf("first target should be the requester with processed template, got %+v", outcome.Targets[0])
	}
	teacherTarget := outcome.Targets[1]
	if teacherTarget.Role != "Teacher" || !teacherTarget.DepartmentScoped || teacherTarget.Template != TemplateFinalReport {
		t.Errorf("second target should be department teachers with report template, got %+v", teacherTarget)
	}
}

func TestApply_Reject(t *testing.T) {
	trail, outcome, err := Apply(approvedThrough(1), StageHOD, DecisionReject, "insufficient funds")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if got := DerivedStatus(trail); got != "Rejected by HOD" {
		t.Errorf("DerivedStatus() = %q, want %q", got, "Rejected by HOD")
	}
	if trail.HOD.Remarks != "insufficient funds" {
		t.Errorf("hod remarks = %q, want %q", trail.HOD.Remarks, "insufficient funds")
	}

	if outcome.FinalReport {
		t.Error("rejection must not trigger the final report")
	}
	if len(outcome.Targets) != 1 || !outcome.Targets[0].Requester {
		t.Fatalf("rejection should notify only the requester, got %+v", outcome.Targets)
	}
	if outcome.Targets[0].Template != TemplateRejected {
		t.Errorf("template = %s, want %s", outcome.Targets[0].Template, TemplateRejected)
	}
}

// After a rejection the chain is terminal: no later stage may ever leave
// Pending, whatever sequence of decisions is attempted.
func TestApply_TerminalAfterReject(t *testing.T) {
	trail, _, err := Apply(approvedThrough(1), StageHOD, DecisionReject, "insufficient funds")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	for _, stage := range []Stage{StagePrincipal, StageMD, StageAccountant, StageHOD} {
		for _, decision := range []Decision{DecisionApprove, DecisionReject} {
			after, _, err := Apply(trail, stage, decision, "late")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Apply(%s, %s) after rejection: error = %v, want ErrInvalidTransition", stage, decision, err)
			}
			if after != trail {
				t.Errorf("Apply(%s, %s) after rejection mutated the trail", stage, decision)
			}
		}
	}
}

func TestApply_NoDoubleDecision(t *testing.T) {
	trail, _, err := Apply(NewTrail(), StageTeacher, DecisionApprove, "ok")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if _, _, err := Apply(trail, StageTeacher, DecisionApprove, "again"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("re-approving a decided stage: error = %v, want ErrInvalidTransition", err)
	}
	if _, _, err := Apply(trail, StageTeacher, DecisionReject, "changed my mind"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("reversing a decided stage: error = %v, want ErrInvalidTransition", err)
	}
}

func TestApply_InvalidDecision(t *testing.T) {
	if _, _, err := Apply(NewTrail(), StageTeacher, Decision("defer"), "later"); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("Apply() error = %v, want ErrInvalidDecision", err)
	}
}

// Walking the whole chain in order keeps the no-hole invariant: a decided
// stage always has a fully approved prefix.
func TestApply_FullChainWalk(t *testing.T) {
	trail := NewTrail()
	for _, stage := range Stages() {
		var err error
		trail, _, err = Apply(trail, stage, DecisionApprove, "ok")
		if err != nil {
			t.Fatalf("Apply(%s) unexpected error: %v", stage, err)
		}

		for i := 0; i <= stage.Ordinal(); i++ {
			if trail.Record(stageOrder[i]).Status != StatusApproved {
				t.Errorf("after approving %s, stage %s is not Approved", stage, stageOrder[i])
			}
		}
	}

	if got := DerivedStatus(trail); got != "Processed" {
		t.Errorf("DerivedStatus() after full walk = %q, want Processed", got)
	}
}
