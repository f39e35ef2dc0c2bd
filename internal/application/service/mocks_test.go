package service

import (
	"context"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

type mockRequestRepo struct {
	createFunc            func(ctx context.Context, req *entity.ReimbursementRequest) error
	getByIDFunc           func(ctx context.Context, id int64) (*entity.ReimbursementRequest, error)
	listPendingFunc       func(ctx context.Context, stage chain.Stage, department string) ([]*entity.ReimbursementRequest, error)
	listByEmailFunc       func(ctx context.Context, email string) ([]*entity.ReimbursementRequest, error)
	listAllFunc           func(ctx context.Context) ([]*entity.ReimbursementRequest, error)
	applyDecisionFunc     func(ctx context.Context, id, version int64, trail chain.Trail, derivedStatus string) error
	normalizeStatusesFunc func(ctx context.Context) (int64, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, req *entity.ReimbursementRequest) error {
	return m.createFunc(ctx, req)
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*entity.ReimbursementRequest, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRequestRepo) ListPending(ctx context.Context, stage chain.Stage, department string) ([]*entity.ReimbursementRequest, error) {
	return m.listPendingFunc(ctx, stage, department)
}

func (m *mockRequestRepo) ListByEmail(ctx context.Context, email string) ([]*entity.ReimbursementRequest, error) {
	return m.listByEmailFunc(ctx, email)
}

func (m *mockRequestRepo) ListAll(ctx context.Context) ([]*entity.ReimbursementRequest, error) {
	return m.listAllFunc(ctx)
}

func (m *mockRequestRepo) ApplyDecision(ctx context.Context, id, version int64, trail chain.Trail, derivedStatus string) error {
	return m.applyDecisionFunc(ctx, id, version, trail, derivedStatus)
}

func (m *mockRequestRepo) NormalizeStatuses(ctx context.Context) (int64, error) {
	return m.normalizeStatusesFunc(ctx)
}

type mockUserRepo struct {
	createFunc           func(ctx context.Context, user *entity.User) error
	getByEmailFunc       func(ctx context.Context, email string) (*entity.User, error)
	emailsByRoleFunc     func(ctx context.Context, role entity.Role) ([]string, error)
	emailsByRoleDeptFunc func(ctx context.Context, role entity.Role, department string) ([]string, error)
	listFunc             func(ctx context.Context) ([]*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) EmailsByRole(ctx context.Context, role entity.Role) ([]string, error) {
	return m.emailsByRoleFunc(ctx, role)
}

func (m *mockUserRepo) EmailsByRoleAndDepartment(ctx context.Context, role entity.Role, department string) ([]string, error) {
	return m.emailsByRoleDeptFunc(ctx, role, department)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return m.listFunc(ctx)
}

type mockNotifier struct {
	sendFunc func(ctx context.Context, msg port.Message) error
	sent     []port.Message
}

func (m *mockNotifier) Send(ctx context.Context, msg port.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

type mockReportService struct {
	deliverFunc func(ctx context.Context, req *entity.ReimbursementRequest) error
	delivered   int
}

func (m *mockReportService) Deliver(ctx context.Context, req *entity.ReimbursementRequest) error {
	m.delivered++
	if m.deliverFunc != nil {
		return m.deliverFunc(ctx, req)
	}
	return nil
}

func (m *mockReportService) Render(ctx context.Context, req *entity.ReimbursementRequest) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type mockArtifactStore struct {
	saveFunc func(label, filename string, content []byte) (string, error)
}

func (m *mockArtifactStore) Save(label, filename string, content []byte) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(label, filename, content)
	}
	return label + "_ref.pdf", nil
}

func (m *mockArtifactStore) Open(ref string) ([]byte, error) {
	return []byte("stored"), nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRenderer struct {
	renderFunc func(snapshot port.ReportSnapshot) ([]byte, error)
}

func (m *mockRenderer) Render(snapshot port.ReportSnapshot) ([]byte, error) {
	if m.renderFunc != nil {
		return m.renderFunc(snapshot)
	}
	return []byte("%PDF-stub"), nil
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
