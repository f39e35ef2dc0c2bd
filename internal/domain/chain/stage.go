package chain

import "fmt"

// Stage represents one step in the fixed approval chain.
type Stage string

const (
	StageTeacher    Stage = "teacher"
	StageHOD        Stage = "hod"
	StagePrincipal  Stage = "principal"
	StageMD         Stage = "md"
	StageAccountant Stage = "accountant"
)

// stageOrder is the authoritative review order. Every query and transition
// rule is derived from this sequence.
var stageOrder = []Stage{
	StageTeacher,
	StageHOD,
	StagePrincipal,
	StageMD,
	StageAccountant,
}

var stageDisplayNames = map[Stage]string{
	StageTeacher:    "Teacher",
	StageHOD:        "HOD",
	StagePrincipal:  "Principal",
	StageMD:         "MD",
	StageAccountant: "Accountant",
}

// departmentScoped marks the stages whose reviewers only see requests from
// their own department. Principal, MD and Accountant act institution-wide.
var departmentScoped = map[Stage]bool{
	StageTeacher: true,
	StageHOD:     true,
}

// Stages returns the chain in review order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage converts a string into a Stage.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return stage, nil
}

// IsValid returns true if the stage is part of the chain.
func (s Stage) IsValid() bool {
	_, ok := stageDisplayNames[s]
	return ok
}

// Ordinal returns the zero-based position of the stage in the chain,
// or -1 for an unknown stage.
func (s Stage) Ordinal() int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that reviews after s. ok is false for the final
// stage and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.Ordinal()
	if i < 0 || i+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[i+1], true
}

// IsFinal returns true for the last stage of the chain.
func (s Stage) IsFinal() bool {
	return s == stageOrder[len(stageOrder)-1]
}

// DepartmentScoped returns true if the stage's pending-work view is
// restricted to the reviewer's department.
func (s Stage) DepartmentScoped() bool {
	return departmentScoped[s]
}

// DisplayName returns the human-readable stage name used in status labels
// and notifications.
func (s Stage) DisplayName() string {
	if name, ok := stageDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// RoleName returns the user role that reviews this stage. The role names
// match the identity store's role values.
func (s Stage) RoleName() string {
	return s.DisplayName()
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}
