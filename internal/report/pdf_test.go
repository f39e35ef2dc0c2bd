package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

func processedRequest(t *testing.T) *entity.ReimbursementRequest {
	t.Helper()

	req := entity.NewRequest("asha@fcrit.ac.in", "CS", "conference travel", decimal.NewFromInt(4500))
	req.ID = 12

	trail := req.Trail
	for _, stage := range chain.Stages() {
		var err error
		trail, _, err = chain.Apply(trail, stage, chain.DecisionApprove, "verified")
		require.NoError(t, err)
	}
	req.Trail = trail
	req.Status = chain.DerivedStatus(trail)
	return req
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer(Config{
		InstitutionName: "Fr. C Rodrigues Institute of Technology, Vashi",
		FooterText:      "Generated by Reimbursement Portal",
	}, zap.NewNop())

	content, err := renderer.Render(port.ReportSnapshot{
		Request:       processedRequest(t),
		RequesterName: "Asha Rao",
	})

	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]), "output should be a PDF document")
}

func TestPDFRenderer_RejectsIncompleteSnapshot(t *testing.T) {
	renderer := NewPDFRenderer(Config{InstitutionName: "FCRIT"}, zap.NewNop())

	t.Run("nil request", func(t *testing.T) {
		_, err := renderer.Render(port.ReportSnapshot{})
		assert.Error(t, err)
	})

	t.Run("undecided request", func(t *testing.T) {
		req := entity.NewRequest("asha@fcrit.ac.in", "CS", "travel", decimal.NewFromInt(100))
		_, err := renderer.Render(port.ReportSnapshot{Request: req})
		assert.Error(t, err)
	})

	t.Run("mid-chain request", func(t *testing.T) {
		req := entity.NewRequest("asha@fcrit.ac.in", "CS", "travel", decimal.NewFromInt(100))
		trail, _, err := chain.Apply(req.Trail, chain.StageTeacher, chain.DecisionApprove, "ok")
		require.NoError(t, err)
		req.Trail = trail

		_, err = renderer.Render(port.ReportSnapshot{Request: req})
		assert.Error(t, err)
	})
}
