package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
	"github.com/MelissaSequeira/reimburse-portal/internal/email"
	"github.com/MelissaSequeira/reimburse-portal/pkg/utils"
)

// ErrInvalidInput is returned when a submission fails validation.
var ErrInvalidInput = errors.New("invalid submission input")

// FileUpload carries one supporting document as received from the client.
type FileUpload struct {
	Filename string
	Content  []byte
}

// SubmissionInput is the payload of a new reimbursement claim. All four
// supporting documents are mandatory.
type SubmissionInput struct {
	Purpose     string
	Amount      decimal.Decimal
	Letter      FileUpload
	Certificate FileUpload
	Brochure    FileUpload
	Bill        FileUpload
}

// SubmissionService handles the student-facing side of the workflow:
// creating claims and reading back their progress.
type SubmissionService interface {
	Submit(ctx context.Context, actor entity.Actor, input SubmissionInput) (*entity.ReimbursementRequest, error)
	ListOwn(ctx context.Context, actor entity.Actor) ([]*entity.ReimbursementRequest, error)
	Get(ctx context.Context, requestID int64) (*entity.ReimbursementRequest, error)
}

type submissionServiceImpl struct {
	requestRepo port.RequestRepository
	userRepo    port.UserRepository
	artifacts   port.ArtifactStore
	notifier    port.Notifier
	txManager   port.TransactionManager
	logger      Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	requestRepo port.RequestRepository,
	userRepo port.UserRepository,
	artifacts port.ArtifactStore,
	notifier port.Notifier,
	txManager port.TransactionManager,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		artifacts:   artifacts,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Submit validates the claim, stores its documents, and creates the request
// with a fresh all-pending trail. The requester's department is taken from
// the identity record, never from the submitted payload.
func (s *submissionServiceImpl) Submit(ctx context.Context, actor entity.Actor, input SubmissionInput) (*entity.ReimbursementRequest, error) {
	purpose := utils.SanitizeString(strings.TrimSpace(input.Purpose))
	if purpose == "" {
		return nil, fmt.Errorf("%w: purpose is required", ErrInvalidInput)
	}
	if err := utils.ValidateAmount(input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown requester %s", ErrInvalidInput, actor.Email)
		}
		return nil, err
	}

	uploads := []struct {
		label string
		file  FileUpload
	}{
		{"letter", input.Letter},
		{"certificate", input.Certificate},
		{"brochure", input.Brochure},
		{"bill", input.Bill},
	}
	refs := make(map[string]string, len(uploads))
	for _, u := range uploads {
		if u.file.Filename == "" || len(u.file.Content) == 0 {
			return nil, fmt.Errorf("%w: %s document is required", ErrInvalidInput, u.label)
		}
		ref, err := s.artifacts.Save(u.label, u.file.Filename, u.file.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, u.label, err)
		}
		refs[u.label] = ref
	}

	req := entity.NewRequest(user.Email, user.Department, purpose, input.Amount)
	req.Letter = refs["letter"]
	req.Certificate = refs["certificate"]
	req.Brochure = refs["brochure"]
	req.Bill = refs["bill"]

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.requestRepo.Create(txCtx, req)
	})
	if err != nil {
		s.logger.Error("Failed to create reimbursement request", "error", err, "email", user.Email)
		return nil, err
	}

	s.logger.Info("Reimbursement request submitted",
		"request_id", req.ID,
		"email", req.Email,
		"department", req.Department,
		"amount", req.Amount.String())

	s.notifyTeachers(ctx, req)

	return req, nil
}

// notifyTeachers tells the department's teachers a claim awaits them.
// Failure here is logged and swallowed: the request is already durable.
func (s *submissionServiceImpl) notifyTeachers(ctx context.Context, req *entity.ReimbursementRequest) {
	recipients, err := s.userRepo.EmailsByRoleAndDepartment(ctx, entity.RoleTeacher, req.Department)
	if err != nil {
		s.logger.Error("Failed to resolve teacher recipients", "error", err, "request_id", req.ID)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject, body := email.Compose(chain.TemplateSubmitted, email.ComposeData{
		RequestID:  req.ID,
		Purpose:    req.Purpose,
		Department: req.Department,
	})
	if err := s.notifier.Send(ctx, port.Message{To: recipients, Subject: subject, Body: body}); err != nil {
		s.logger.Error("Failed to send submission notification", "error", err, "request_id", req.ID)
	}
}

// ListOwn returns the actor's own requests, newest first.
func (s *submissionServiceImpl) ListOwn(ctx context.Context, actor entity.Actor) ([]*entity.ReimbursementRequest, error) {
	return s.requestRepo.ListByEmail(ctx, actor.Email)
}

// Get returns a single request by id.
func (s *submissionServiceImpl) Get(ctx context.Context, requestID int64) (*entity.ReimbursementRequest, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}
