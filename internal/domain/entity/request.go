package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
)

// ReimbursementRequest is one submitted claim travelling through the
// approval chain. The base fields are immutable after submission; only the
// trail, the derived status label and the version move, and always together
// in a single atomic write.
type ReimbursementRequest struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	Department  string          `json:"department"`
	Purpose     string          `json:"purpose"`
	Amount      decimal.Decimal `json:"amount"`
	Letter      string          `json:"letter"`
	Certificate string          `json:"certificate"`
	Brochure    string          `json:"brochure"`
	Bill        string          `json:"bill"`
	Status      string          `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Trail       chain.Trail     `json:"trail"`

	// Version guards the read-modify-write of a stage decision. Every
	// successful decision increments it; a stale write is rejected.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRequest builds a freshly submitted claim: every stage pending and the
// derived label at the head of the chain. Department is copied from the
// submitter's identity record at creation time, never re-derived later.
func NewRequest(email, department, purpose string, amount decimal.Decimal) *ReimbursementRequest {
	trail := chain.NewTrail()
	now := time.Now()
	return &ReimbursementRequest{
		Email:       email,
		Department:  department,
		Purpose:     purpose,
		Amount:      amount,
		Status:      chain.DerivedStatus(trail),
		SubmittedAt: now,
		Trail:       trail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Artifacts returns the stored attachment references keyed by label.
func (r *ReimbursementRequest) Artifacts() map[string]string {
	return map[string]string{
		"letter":      r.Letter,
		"certificate": r.Certificate,
		"brochure":    r.Brochure,
		"bill":        r.Bill,
	}
}
