package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
	"github.com/MelissaSequeira/reimburse-portal/internal/email"
	"github.com/MelissaSequeira/reimburse-portal/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ErrEmptyRemarks is returned when a decision is submitted without remarks.
var ErrEmptyRemarks = errors.New("remarks are required for a decision")

// maxDecisionAttempts bounds the retry loop on version conflicts. A retry
// re-reads the row, so a genuinely concurrent decision surfaces as
// ErrInvalidTransition on the next attempt rather than a lost update.
const maxDecisionAttempts = 3

// ApprovalService exposes the per-stage operations of the approval chain:
// the pending-work query and the decision transition.
type ApprovalService interface {
	// Pending lists the requests actionable at a stage. For
	// department-scoped stages the actor's department narrows the view.
	Pending(ctx context.Context, stage chain.Stage, actor entity.Actor) ([]*entity.ReimbursementRequest, error)

	// Decide records a single-shot stage decision and returns the updated
	// request. The state change commits before any notification is
	// attempted; notification and report failures never roll it back.
	Decide(ctx context.Context, actor entity.Actor, requestID int64, stage chain.Stage, decision chain.Decision, remarks string) (*entity.ReimbursementRequest, error)
}

type approvalServiceImpl struct {
	requestRepo port.RequestRepository
	userRepo    port.UserRepository
	notifier    port.Notifier
	reports     ReportService
	logger      Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	requestRepo port.RequestRepository,
	userRepo port.UserRepository,
	notifier port.Notifier,
	reports ReportService,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		reports:     reports,
		logger:      logger,
	}
}

// Pending returns the stage's work queue, oldest submission first.
func (s *approvalServiceImpl) Pending(ctx context.Context, stage chain.Stage, actor entity.Actor) ([]*entity.ReimbursementRequest, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: %q", chain.ErrInvalidStage, stage)
	}

	department := ""
	if stage.DepartmentScoped() {
		department = actor.Department
	}

	requests, err := s.requestRepo.ListPending(ctx, stage, department)
	if err != nil {
		s.logger.Error("Failed to list pending requests", "error", err, "stage", stage.String())
		return nil, err
	}
	return requests, nil
}

// Decide applies one stage decision with a guarded, versioned write.
func (s *approvalServiceImpl) Decide(ctx context.Context, actor entity.Actor, requestID int64, stage chain.Stage, decision chain.Decision, remarks string) (*entity.ReimbursementRequest, error) {
	remarks = utils.SanitizeString(strings.TrimSpace(remarks))
	if remarks == "" {
		return nil, ErrEmptyRemarks
	}

	var (
		updated *entity.ReimbursementRequest
		outcome chain.Outcome
	)

	for attempt := 1; ; attempt++ {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}

		trail, out, err := chain.Apply(req.Trail, stage, decision, remarks)
		if err != nil {
			return nil, err
		}
		derived := chain.DerivedStatus(trail)

		err = s.requestRepo.ApplyDecision(ctx, req.ID, req.Version, trail, derived)
		if errors.Is(err, port.ErrVersionConflict) {
			if attempt >= maxDecisionAttempts {
				return nil, err
			}
			s.logger.Info("Decision write conflicted, retrying",
				"request_id", requestID, "stage", stage.String(), "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		req.Trail = trail
		req.Status = derived
		req.Version++
		updated = req
		outcome = out
		break
	}

	s.logger.Info("Stage decision recorded",
		"request_id", updated.ID,
		"stage", stage.String(),
		"decision", decision.String(),
		"actor", actor.Email,
		"status", updated.Status)

	// Side effects happen only after the state change is durable, and
	// their failure is reported, not propagated.
	s.dispatch(ctx, updated, stage, outcome)

	return updated, nil
}

// dispatch fans out the notifications an outcome obliges and triggers the
// final report when the chain completes.
func (s *approvalServiceImpl) dispatch(ctx context.Context, req *entity.ReimbursementRequest, stage chain.Stage, outcome chain.Outcome) {
	for _, target := range outcome.Targets {
		if target.Template == chain.TemplateFinalReport {
			// The report delivery owns this audience; it attaches the
			// rendered document to the same message.
			continue
		}

		recipients, err := s.resolveRecipients(ctx, req, target)
		if err != nil {
			s.logger.Error("Failed to resolve notification recipients",
				"error", err, "request_id", req.ID, "role", target.Role)
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		record := req.Trail.Record(stage)
		subject, body := email.Compose(target.Template, email.ComposeData{
			RequestID:  req.ID,
			Purpose:    req.Purpose,
			Department: req.Department,
			StageName:  stage.DisplayName(),
			Remarks:    record.Remarks,
		})

		if err := s.notifier.Send(ctx, port.Message{To: recipients, Subject: subject, Body: body}); err != nil {
			s.logger.Error("Failed to send notification",
				"error", err, "request_id", req.ID, "template", string(target.Template))
		}
	}

	if outcome.FinalReport {
		if err := s.reports.Deliver(ctx, req); err != nil {
			s.logger.Error("Failed to deliver final report",
				"error", err, "request_id", req.ID)
		}
	}
}

func (s *approvalServiceImpl) resolveRecipients(ctx context.Context, req *entity.ReimbursementRequest, target chain.NotifyTarget) ([]string, error) {
	if target.Requester {
		return []string{req.Email}, nil
	}
	if target.DepartmentScoped {
		return s.userRepo.EmailsByRoleAndDepartment(ctx, entity.Role(target.Role), req.Department)
	}
	return s.userRepo.EmailsByRole(ctx, entity.Role(target.Role))
}
