package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

func validInput() SubmissionInput {
	doc := FileUpload{Filename: "doc.pdf", Content: []byte("content")}
	return SubmissionInput{
		Purpose:     "IEEE conference registration",
		Amount:      decimal.NewFromFloat(1250.50),
		Letter:      doc,
		Certificate: doc,
		Brochure:    doc,
		Bill:        doc,
	}
}

func newSubmissionFixture() (SubmissionService, *mockRequestRepo, *mockUserRepo, *mockNotifier) {
	requestRepo := &mockRequestRepo{
		createFunc: func(ctx context.Context, req *entity.ReimbursementRequest) error {
			req.ID = 42
			return nil
		},
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{
				Name:       "Melissa",
				Email:      email,
				Role:       entity.RoleStudent,
				Department: "Computer",
			}, nil
		},
		emailsByRoleDeptFunc: func(ctx context.Context, role entity.Role, department string) ([]string, error) {
			return []string{"teacher@fcrit.ac.in"}, nil
		},
	}
	notifier := &mockNotifier{}
	svc := NewSubmissionService(requestRepo, userRepo, &mockArtifactStore{}, notifier, &mockTxManager{}, noopLogger{})
	return svc, requestRepo, userRepo, notifier
}

func TestSubmitCreatesPendingTeacherRequest(t *testing.T) {
	svc, _, _, notifier := newSubmissionFixture()
	actor := entity.Actor{Email: "student@fcrit.ac.in", Role: entity.RoleStudent}

	req, err := svc.Submit(context.Background(), actor, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(42), req.ID)
	assert.Equal(t, "Pending Teacher", req.Status)
	assert.Equal(t, "Computer", req.Department)
	for _, s := range chain.Stages() {
		record := req.Trail.Record(s)
		assert.Equal(t, chain.StatusPending, record.Status)
		assert.Empty(t, record.Remarks)
	}
	assert.NotEmpty(t, req.Letter)
	assert.NotEmpty(t, req.Bill)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"teacher@fcrit.ac.in"}, notifier.sent[0].To)
	assert.Contains(t, notifier.sent[0].Body, "Computer")
}

func TestSubmitDepartmentComesFromProfile(t *testing.T) {
	svc, repo, _, _ := newSubmissionFixture()

	var created *entity.ReimbursementRequest
	repo.createFunc = func(ctx context.Context, req *entity.ReimbursementRequest) error {
		created = req
		return nil
	}

	// Whatever department the caller claims, the identity record wins.
	actor := entity.Actor{Email: "student@fcrit.ac.in", Role: entity.RoleStudent, Department: "Mechanical"}
	_, err := svc.Submit(context.Background(), actor, validInput())

	require.NoError(t, err)
	assert.Equal(t, "Computer", created.Department)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()
	actor := entity.Actor{Email: "student@fcrit.ac.in", Role: entity.RoleStudent}

	cases := []struct {
		name   string
		mutate func(*SubmissionInput)
	}{
		{"empty purpose", func(in *SubmissionInput) { in.Purpose = "  " }},
		{"zero amount", func(in *SubmissionInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *SubmissionInput) { in.Amount = decimal.NewFromInt(-5) }},
		{"missing bill", func(in *SubmissionInput) { in.Bill = FileUpload{} }},
		{"missing letter content", func(in *SubmissionInput) { in.Letter.Content = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Submit(context.Background(), actor, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSubmitUnknownRequester(t *testing.T) {
	svc, _, userRepo, _ := newSubmissionFixture()
	userRepo.getByEmailFunc = func(ctx context.Context, email string) (*entity.User, error) {
		return nil, port.ErrNotFound
	}

	actor := entity.Actor{Email: "ghost@fcrit.ac.in", Role: entity.RoleStudent}
	_, err := svc.Submit(context.Background(), actor, validInput())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitNotificationFailureIsNonFatal(t *testing.T) {
	svc, _, _, notifier := newSubmissionFixture()
	notifier.sendFunc = func(ctx context.Context, msg port.Message) error {
		return errors.New("smtp unavailable")
	}

	actor := entity.Actor{Email: "student@fcrit.ac.in", Role: entity.RoleStudent}
	req, err := svc.Submit(context.Background(), actor, validInput())

	require.NoError(t, err)
	assert.Equal(t, "Pending Teacher", req.Status)
}

func TestSubmitStorageFailure(t *testing.T) {
	requestRepo := &mockRequestRepo{}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{Email: email, Role: entity.RoleStudent, Department: "Computer"}, nil
		},
	}
	store := &mockArtifactStore{
		saveFunc: func(label, filename string, content []byte) (string, error) {
			return "", errors.New("file type not allowed")
		},
	}
	svc := NewSubmissionService(requestRepo, userRepo, store, &mockNotifier{}, &mockTxManager{}, noopLogger{})

	actor := entity.Actor{Email: "student@fcrit.ac.in", Role: entity.RoleStudent}
	_, err := svc.Submit(context.Background(), actor, validInput())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
