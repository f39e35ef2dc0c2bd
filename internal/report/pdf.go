package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
)

// Config holds report rendering configuration
type Config struct {
	InstitutionName string
	FooterText      string
}

// PDFRenderer renders the terminal report for a fully processed request:
// the complete approval trail plus the claim's base fields.
type PDFRenderer struct {
	cfg    Config
	logger *zap.Logger
}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer(cfg Config, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{
		cfg:    cfg,
		logger: logger,
	}
}

// Render produces the final report document. The snapshot must be fully
// processed; rendering a half-decided request is a programming error.
func (r *PDFRenderer) Render(snapshot port.ReportSnapshot) ([]byte, error) {
	req := snapshot.Request
	if req == nil {
		return nil, fmt.Errorf("report snapshot has no request")
	}
	if !req.Trail.Processed() {
		return nil, fmt.Errorf("request %d is not fully processed", req.ID)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.cfg.InstitutionName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Reimbursement Final Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	r.infoLine(pdf, "Student Name", snapshot.RequesterName)
	r.infoLine(pdf, "Email", req.Email)
	r.infoLine(pdf, "Department", req.Department)
	r.infoLine(pdf, "Request ID", fmt.Sprintf("%d", req.ID))
	pdf.Ln(4)

	// Claim summary table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(173, 216, 230)
	pdf.CellFormat(80, 8, "Purpose", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount (Rs.)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Date Submitted", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(80, 8, req.Purpose, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, req.Amount.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, req.Status, "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, req.SubmittedAt.Format("2006-01-02 15:04"), "1", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Full approval trail
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Approval Trail", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, stage := range chain.Stages() {
		record := req.Trail.Record(stage)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", stage.DisplayName(), record.Status), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("Remarks: %s", record.Remarks), "", "L", false)
		pdf.Ln(2)
	}

	pdf.Ln(16)
	pdf.CellFormat(0, 6, "__________________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Signature (Accounts Dept)", "", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, r.cfg.FooterText, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("Failed to render report", zap.Int64("request_id", req.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	r.logger.Info("Report rendered",
		zap.Int64("request_id", req.ID),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *PDFRenderer) infoLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(35, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
