package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

// stageColumns maps a chain stage to its status/remarks column prefix.
var stageColumns = map[chain.Stage]string{
	chain.StageTeacher:    "teacher",
	chain.StageHOD:        "hod",
	chain.StagePrincipal:  "principal",
	chain.StageMD:         "md",
	chain.StageAccountant: "accountant",
}

const requestColumns = `
	id, email, department, purpose, amount,
	letter, certificate, brochure, bill,
	status, submitted_at,
	teacher_status, teacher_remarks,
	hod_status, hod_remarks,
	principal_status, principal_remarks,
	md_status, md_remarks,
	accountant_status, accountant_remarks,
	version, created_at, updated_at`

// RequestRepository handles reimbursement request database operations
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) *RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a freshly submitted request and fills in its id.
func (r *RequestRepository) Create(ctx context.Context, req *entity.ReimbursementRequest) error {
	query := `
		INSERT INTO reimbursement_requests (
			email, department, purpose, amount,
			letter, certificate, brochure, bill,
			status, submitted_at,
			teacher_status, teacher_remarks,
			hod_status, hod_remarks,
			principal_status, principal_remarks,
			md_status, md_remarks,
			accountant_status, accountant_remarks,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := queryerFrom(ctx, r.db).ExecContext(ctx, query,
		req.Email,
		req.Department,
		req.Purpose,
		req.Amount.String(),
		req.Letter,
		req.Certificate,
		req.Brochure,
		req.Bill,
		req.Status,
		req.SubmittedAt,
		string(req.Trail.Teacher.Status), req.Trail.Teacher.Remarks,
		string(req.Trail.HOD.Status), req.Trail.HOD.Remarks,
		string(req.Trail.Principal.Status), req.Trail.Principal.Remarks,
		string(req.Trail.MD.Status), req.Trail.MD.Remarks,
		string(req.Trail.Accountant.Status), req.Trail.Accountant.Remarks,
		req.Version,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves a request by id.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.ReimbursementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM reimbursement_requests WHERE id = ?`

	req, err := scanRequest(queryerFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", id, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// ListPending returns the pending-work view for a stage: the stage itself
// pending, every earlier stage approved, optionally narrowed to a
// department. Ordered by submission time for a stable reviewer queue.
func (r *RequestRepository) ListPending(ctx context.Context, stage chain.Stage, department string) ([]*entity.ReimbursementRequest, error) {
	col, ok := stageColumns[stage]
	if !ok {
		return nil, fmt.Errorf("%w: %q", chain.ErrInvalidStage, stage)
	}

	conditions := []string{col + "_status = ?"}
	args := []any{string(chain.StatusPending)}

	for i := 0; i < stage.Ordinal(); i++ {
		prev := stageColumns[chain.Stages()[i]]
		conditions = append(conditions, prev+"_status = ?")
		args = append(args, string(chain.StatusApproved))
	}

	if department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, department)
	}

	query := `SELECT ` + requestColumns + `
		FROM reimbursement_requests
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY submitted_at ASC, id ASC`

	return r.queryRequests(ctx, query, args...)
}

// ListByEmail returns the requester's own submissions.
func (r *RequestRepository) ListByEmail(ctx context.Context, email string) ([]*entity.ReimbursementRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM reimbursement_requests
		WHERE email = ?
		ORDER BY submitted_at ASC, id ASC`
	return r.queryRequests(ctx, query, email)
}

// ListAll returns every request, oldest first.
func (r *RequestRepository) ListAll(ctx context.Context) ([]*entity.ReimbursementRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM reimbursement_requests
		ORDER BY submitted_at ASC, id ASC`
	return r.queryRequests(ctx, query)
}

// ApplyDecision writes the whole trail, the derived status label and the
// bumped version in one guarded statement. A stale expected version leaves
// the row untouched and surfaces ErrVersionConflict.
func (r *RequestRepository) ApplyDecision(ctx context.Context, id, version int64, trail chain.Trail, derivedStatus string) error {
	query := `
		UPDATE reimbursement_requests SET
			teacher_status = ?, teacher_remarks = ?,
			hod_status = ?, hod_remarks = ?,
			principal_status = ?, principal_remarks = ?,
			md_status = ?, md_remarks = ?,
			accountant_status = ?, accountant_remarks = ?,
			status = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := queryerFrom(ctx, r.db).ExecContext(ctx, query,
		string(trail.Teacher.Status), trail.Teacher.Remarks,
		string(trail.HOD.Status), trail.HOD.Remarks,
		string(trail.Principal.Status), trail.Principal.Remarks,
		string(trail.MD.Status), trail.MD.Remarks,
		string(trail.Accountant.Status), trail.Accountant.Remarks,
		derivedStatus,
		time.Now(),
		id,
		version,
	)
	if err != nil {
		r.logger.Error("Failed to apply decision", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to apply decision: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Either the id is gone or a concurrent decision bumped the version.
		var exists int
		err := queryerFrom(ctx, r.db).QueryRowContext(ctx,
			"SELECT 1 FROM reimbursement_requests WHERE id = ?", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("request %d: %w", id, port.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check request existence: %w", err)
		}
		return fmt.Errorf("request %d at version %d: %w", id, version, port.ErrVersionConflict)
	}

	return nil
}

// NormalizeStatuses canonicalizes stage status casing across all rows.
func (r *RequestRepository) NormalizeStatuses(ctx context.Context) (int64, error) {
	canonical := []chain.Status{chain.StatusPending, chain.StatusApproved, chain.StatusRejected}

	var total int64
	for _, col := range stageColumns {
		for _, status := range canonical {
			query := fmt.Sprintf(
				"UPDATE reimbursement_requests SET %s_status = ? WHERE LOWER(%s_status) = ? AND %s_status != ?",
				col, col, col,
			)
			result, err := queryerFrom(ctx, r.db).ExecContext(ctx, query,
				string(status), strings.ToLower(string(status)), string(status))
			if err != nil {
				return total, fmt.Errorf("failed to normalize %s_status: %w", col, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return total, fmt.Errorf("failed to get rows affected: %w", err)
			}
			total += affected
		}
	}

	if total > 0 {
		r.logger.Info("Normalized stage statuses", zap.Int64("rows", total))
	}
	return total, nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*entity.ReimbursementRequest, error) {
	rows, err := queryerFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query requests", zap.Error(err))
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.ReimbursementRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*entity.ReimbursementRequest, error) {
	var req entity.ReimbursementRequest
	var amount string
	var teacherStatus, hodStatus, principalStatus, mdStatus, accountantStatus string

	err := row.Scan(
		&req.ID,
		&req.Email,
		&req.Department,
		&req.Purpose,
		&amount,
		&req.Letter,
		&req.Certificate,
		&req.Brochure,
		&req.Bill,
		&req.Status,
		&req.SubmittedAt,
		&teacherStatus, &req.Trail.Teacher.Remarks,
		&hodStatus, &req.Trail.HOD.Remarks,
		&principalStatus, &req.Trail.Principal.Remarks,
		&mdStatus, &req.Trail.MD.Remarks,
		&accountantStatus, &req.Trail.Accountant.Remarks,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}

	req.Trail.Teacher.Status = chain.Status(teacherStatus)
	req.Trail.HOD.Status = chain.Status(hodStatus)
	req.Trail.Principal.Status = chain.Status(principalStatus)
	req.Trail.MD.Status = chain.Status(mdStatus)
	req.Trail.Accountant.Status = chain.Status(accountantStatus)

	return &req, nil
}
