package port

import (
	"context"
	"errors"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record id or email has no match.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a decision write lost the race
	// against a concurrent decision on the same request.
	ErrVersionConflict = errors.New("request version conflict")
)

// RequestRepository defines persistence operations for ReimbursementRequest.
type RequestRepository interface {
	Create(ctx context.Context, req *entity.ReimbursementRequest) error

	// GetByID returns ErrNotFound when the id does not exist.
	GetByID(ctx context.Context, id int64) (*entity.ReimbursementRequest, error)

	// ListPending returns requests actionable at the given stage: the stage
	// itself pending and every earlier stage approved. department narrows
	// the result for department-scoped stages; pass "" for institution-wide
	// stages. Results are ordered by submission time ascending.
	ListPending(ctx context.Context, stage chain.Stage, department string) ([]*entity.ReimbursementRequest, error)

	// ListByEmail returns the requester's own submissions.
	ListByEmail(ctx context.Context, email string) ([]*entity.ReimbursementRequest, error)

	// ListAll returns every request for the admin register.
	ListAll(ctx context.Context) ([]*entity.ReimbursementRequest, error)

	// ApplyDecision writes a new trail, the freshly derived status label and
	// version+1 in one statement, guarded by the expected version. It
	// returns ErrVersionConflict when the row moved underneath the caller
	// and ErrNotFound when the id does not exist.
	ApplyDecision(ctx context.Context, id, version int64, trail chain.Trail, derivedStatus string) error

	// NormalizeStatuses canonicalizes stage status casing across all rows.
	// One-time startup sweep for records written by earlier versions.
	NormalizeStatuses(ctx context.Context) (int64, error)
}

// UserRepository is the identity store: lookups used for actor resolution
// and notification routing.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error

	// GetByEmail returns ErrNotFound when the email is not registered.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	EmailsByRole(ctx context.Context, role entity.Role) ([]string, error)
	EmailsByRoleAndDepartment(ctx context.Context, role entity.Role, department string) ([]string, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// TransactionManager executes a function within a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
