package port

import (
	"context"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

// Attachment is a document shipped with a notification.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

// Message is one outbound notification. Delivery is fire-and-forget: the
// engine never depends on it succeeding.
type Message struct {
	To         []string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Notifier sends notifications to users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ReportSnapshot is the complete, consistent view of a fully decided
// request handed to the renderer: all five stage records, the base fields
// and the requester's display name.
type ReportSnapshot struct {
	Request       *entity.ReimbursementRequest
	RequesterName string
}

// ReportRenderer produces the terminal report document for a processed
// request. Layout is the renderer's business; the engine only guarantees
// the snapshot is complete.
type ReportRenderer interface {
	Render(snapshot ReportSnapshot) ([]byte, error)
}

// ArtifactStore persists uploaded supporting documents and hands back
// opaque references for the request record.
type ArtifactStore interface {
	// Save stores the file content under the given label (letter,
	// certificate, brochure, bill) and returns the reference to persist.
	Save(label, filename string, content []byte) (string, error)

	// Open returns the stored content for a reference.
	Open(ref string) ([]byte, error)
}
