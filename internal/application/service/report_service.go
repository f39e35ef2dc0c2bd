package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
	"github.com/MelissaSequeira/reimburse-portal/internal/email"
)

// ReportService renders the terminal report for a processed request and
// mails it to the department's teachers.
type ReportService interface {
	Deliver(ctx context.Context, req *entity.ReimbursementRequest) error
	Render(ctx context.Context, req *entity.ReimbursementRequest) ([]byte, error)
}

type reportServiceImpl struct {
	userRepo port.UserRepository
	renderer port.ReportRenderer
	notifier port.Notifier
	logger   Logger
}

// NewReportService creates a new ReportService
func NewReportService(userRepo port.UserRepository, renderer port.ReportRenderer, notifier port.Notifier, logger Logger) ReportService {
	return &reportServiceImpl{
		userRepo: userRepo,
		renderer: renderer,
		notifier: notifier,
		logger:   logger,
	}
}

// Render produces the report document for a processed request.
func (s *reportServiceImpl) Render(ctx context.Context, req *entity.ReimbursementRequest) ([]byte, error) {
	snapshot := port.ReportSnapshot{
		Request:       req,
		RequesterName: s.requesterName(ctx, req),
	}
	content, err := s.renderer.Render(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to render report for request %d: %w", req.ID, err)
	}
	return content, nil
}

// Deliver renders the report and mails it, with the document attached, to
// the requester and the teachers of the requester's department.
func (s *reportServiceImpl) Deliver(ctx context.Context, req *entity.ReimbursementRequest) error {
	content, err := s.Render(ctx, req)
	if err != nil {
		return err
	}

	teachers, err := s.userRepo.EmailsByRoleAndDepartment(ctx, entity.RoleTeacher, req.Department)
	if err != nil {
		return fmt.Errorf("failed to resolve report recipients for request %d: %w", req.ID, err)
	}
	recipients := append([]string{req.Email}, teachers...)

	subject, body := email.Compose(chain.TemplateFinalReport, email.ComposeData{
		RequestID:     req.ID,
		Purpose:       req.Purpose,
		RequesterName: s.requesterName(ctx, req),
	})

	msg := port.Message{
		To:      recipients,
		Subject: subject,
		Body:    body,
		Attachment: &port.Attachment{
			Filename: fmt.Sprintf("Reimbursement_Report_%d.pdf", req.ID),
			MIMEType: "application/pdf",
			Content:  content,
		},
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send final report for request %d: %w", req.ID, err)
	}

	s.logger.Info("Final report delivered", "request_id", req.ID, "recipients", len(recipients))
	return nil
}

func (s *reportServiceImpl) requesterName(ctx context.Context, req *entity.ReimbursementRequest) string {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, port.ErrNotFound) {
			s.logger.Error("Failed to look up requester", "error", err, "email", req.Email)
		}
		return req.Email
	}
	return user.Name
}
