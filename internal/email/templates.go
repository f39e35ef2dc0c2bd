package email

import (
	"fmt"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
)

// ComposeData carries the fields the notification templates interpolate.
type ComposeData struct {
	RequestID     int64
	Purpose       string
	Department    string
	StageName     string // display name of the stage that acted
	Remarks       string
	RequesterName string
}

// Compose renders the subject and body for a routing template. The chain
// engine decides WHO gets WHICH template; the wording lives here.
func Compose(template chain.Template, data ComposeData) (subject, body string) {
	switch template {
	case chain.TemplateSubmitted:
		subject = "New Reimbursement Request"
		body = fmt.Sprintf(
			"A student from the %s department has submitted a reimbursement request for: %s.\nPlease login to review.",
			data.Department, data.Purpose,
		)

	case chain.TemplateAwaitingReview:
		subject = "Action Required: Reimbursement Approval"
		body = fmt.Sprintf(
			"Reimbursement request (ID: %d) has been approved by the %s and awaits your review.",
			data.RequestID, data.StageName,
		)

	case chain.TemplateRejected:
		subject = "Reimbursement Status Update"
		body = fmt.Sprintf(
			"Dear Student,\n\nYour reimbursement request (ID: %d) has been rejected by the %s.\n\nRemarks: %s\n\nThank you,\nReimbursement Portal",
			data.RequestID, data.StageName, data.Remarks,
		)

	case chain.TemplateProcessed:
		subject = "Reimbursement Status Update"
		body = fmt.Sprintf(
			"Dear Student,\n\nYour reimbursement request (ID: %d) has been approved and processed.\n\nRemarks: %s\n\nThank you,\nAccounts Department",
			data.RequestID, data.Remarks,
		)

	case chain.TemplateFinalReport:
		subject = "Final Reimbursement Report"
		body = fmt.Sprintf(
			"Dear Faculty,\n\nThe reimbursement request (ID: %d) from student %s has been fully approved and processed.\n\nPlease find the attached report for your records.\n\nRegards,\nReimbursement Portal",
			data.RequestID, data.RequesterName,
		)

	default:
		subject = "Reimbursement Portal Notification"
		body = fmt.Sprintf("Update on reimbursement request (ID: %d).", data.RequestID)
	}

	return subject, body
}
