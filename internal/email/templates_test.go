package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
)

func TestCompose_Submitted(t *testing.T) {
	subject, body := Compose(chain.TemplateSubmitted, ComposeData{
		Department: "CS",
		Purpose:    "conference travel",
	})

	assert.Equal(t, "New Reimbursement Request", subject)
	assert.Contains(t, body, "CS department")
	assert.Contains(t, body, "conference travel")
}

func TestCompose_AwaitingReview(t *testing.T) {
	subject, body := Compose(chain.TemplateAwaitingReview, ComposeData{
		RequestID: 42,
		StageName: "Teacher",
	})

	assert.Contains(t, subject, "Action Required")
	assert.Contains(t, body, "ID: 42")
	assert.Contains(t, body, "approved by the Teacher")
}

func TestCompose_Rejected(t *testing.T) {
	_, body := Compose(chain.TemplateRejected, ComposeData{
		RequestID: 7,
		StageName: "HOD",
		Remarks:   "insufficient funds",
	})

	assert.Contains(t, body, "rejected by the HOD")
	assert.Contains(t, body, "insufficient funds")
}

func TestCompose_Processed(t *testing.T) {
	_, body := Compose(chain.TemplateProcessed, ComposeData{
		RequestID: 7,
		Remarks:   "paid via NEFT",
	})

	assert.Contains(t, body, "approved and processed")
	assert.Contains(t, body, "paid via NEFT")
}

func TestCompose_FinalReport(t *testing.T) {
	subject, body := Compose(chain.TemplateFinalReport, ComposeData{
		RequestID:     7,
		RequesterName: "Asha Rao",
	})

	assert.Equal(t, "Final Reimbursement Report", subject)
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "attached report")
}
