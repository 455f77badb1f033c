package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the kind of write operation recorded in the audit trail.
type AuditAction string

const (
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionAddTransaction AuditAction = "ADD_TRANSACTION"
	AuditActionMarkPaid       AuditAction = "MARK_PAID"
)

// AuditEntry is one row of the append-only audit trail.
type AuditEntry struct {
	ID           uuid.UUID
	UserID       *uuid.UUID // Acting user when known
	Action       AuditAction
	ResourceType string
	ResourceID   *string
	IPAddress    string
	Details      string // JSON blob with method/path/status
	CreatedAt    time.Time
}
