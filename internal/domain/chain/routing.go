package chain

// Template identifies the notification content to render for a routing
// target. Delivery and wording belong to the notifier, not the engine.
type Template string

const (
	TemplateSubmitted      Template = "request.submitted"
	TemplateAwaitingReview Template = "request.awaiting_review"
	TemplateRejected       Template = "request.rejected"
	TemplateProcessed      Template = "request.processed"
	TemplateFinalReport    Template = "request.final_report"
)

// NotifyTarget names one audience that must be told about a transition.
// Either Requester is true, or Role holds the reviewer role to address;
// DepartmentScoped restricts the role lookup to the request's department.
type NotifyTarget struct {
	Requester        bool
	Role             string
	DepartmentScoped bool
	Template         Template
}

// Outcome is what a successful transition obliges the caller to do next.
// The engine reports who must be notified and with which template; it never
// performs delivery itself. FinalReport is set only by the accountant's
// approval, the single event that triggers report generation.
type Outcome struct {
	Targets     []NotifyTarget
	FinalReport bool
}

// routeFor returns the notification routing for a decision at the given
// stage, per the fixed chain:
//
//	teacher approved    -> HOD, same department
//	hod approved        -> Principal, institution-wide
//	principal approved  -> MD, institution-wide
//	md approved         -> Accountant, institution-wide
//	accountant approved -> requester + department teachers, final report
//	any rejection       -> requester only
func routeFor(s Stage, d Decision) Outcome {
	if d == DecisionReject {
		return Outcome{
			Targets: []NotifyTarget{
				{Requester: true, Template: TemplateRejected},
			},
		}
	}

	next, ok := s.Next()
	if !ok {
		// Final approval: the chain is complete.
		return Outcome{
			Targets: []NotifyTarget{
				{Requester: true, Template: TemplateProcessed},
				{Role: StageTeacher.RoleName(), DepartmentScoped: true, Template: TemplateFinalReport},
			},
			FinalReport: true,
		}
	}

	return Outcome{
		Targets: []NotifyTarget{
			{Role: next.RoleName(), DepartmentScoped: next.DepartmentScoped(), Template: TemplateAwaitingReview},
		},
	}
}
