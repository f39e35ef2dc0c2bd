package service

import (
	"context"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

// RegisterExporter builds the spreadsheet register from a set of requests.
type RegisterExporter interface {
	Workbook(requests []*entity.ReimbursementRequest) ([]byte, error)
}

// AdminService covers the institution-wide views: the full register, its
// export, and the startup status sweep.
type AdminService interface {
	ListRequests(ctx context.Context) ([]*entity.ReimbursementRequest, error)
	ExportRegister(ctx context.Context) ([]byte, error)

	// Normalize canonicalizes legacy stage status casing across the whole
	// table. Run once at startup.
	Normalize(ctx context.Context) error
}

type adminServiceImpl struct {
	requestRepo port.RequestRepository
	exporter    RegisterExporter
	logger      Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(requestRepo port.RequestRepository, exporter RegisterExporter, logger Logger) AdminService {
	return &adminServiceImpl{requestRepo: requestRepo, exporter: exporter, logger: logger}
}

func (s *adminServiceImpl) ListRequests(ctx context.Context) ([]*entity.ReimbursementRequest, error) {
	return s.requestRepo.ListAll(ctx)
}

func (s *adminServiceImpl) ExportRegister(ctx context.Context) ([]byte, error) {
	requests, err := s.requestRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Workbook(requests)
	if err != nil {
		s.logger.Error("Failed to build register export", "error", err)
		return nil, err
	}
	s.logger.Info("Register exported", "requests", len(requests))
	return content, nil
}

func (s *adminServiceImpl) Normalize(ctx context.Context) error {
	updated, err := s.requestRepo.NormalizeStatuses(ctx)
	if err != nil {
		return err
	}
	if updated > 0 {
		s.logger.Info("Normalized stage statuses", "rows", updated)
	}
	return nil
}
