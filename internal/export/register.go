package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

const sheetName = "Reimbursements"

// RegisterExporter renders the full reimbursement register as a workbook
// for the admin dashboard.
type RegisterExporter struct {
	logger *zap.Logger
}

// NewRegisterExporter creates a new register exporter
func NewRegisterExporter(logger *zap.Logger) *RegisterExporter {
	return &RegisterExporter{logger: logger}
}

// Workbook renders every request, one row per claim, with the full
// per-stage trail spelled out.
func (e *RegisterExporter) Workbook(requests []*entity.ReimbursementRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"ID", "Email", "Department", "Purpose", "Amount", "Status", "Submitted At"}
	for _, stage := range chain.Stages() {
		headers = append(headers, stage.DisplayName()+" Status", stage.DisplayName()+" Remarks")
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, req := range requests {
		values := []any{
			req.ID,
			req.Email,
			req.Department,
			req.Purpose,
			req.Amount.StringFixed(2),
			req.Status,
			req.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for _, stage := range chain.Stages() {
			record := req.Trail.Record(stage)
			values = append(values, string(record.Status), record.Remarks)
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		e.logger.Error("Failed to write register workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Register workbook generated", zap.Int("requests", len(requests)))
	return buf.Bytes(), nil
}
