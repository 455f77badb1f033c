package ports

import (
	"context"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for users.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking; balance writes only ever happen through them.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByCredentials(ctx context.Context, username, password string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance float64) error
}

// TransactionRepository defines persistence operations for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListByLender returns transactions where the user is the stored from
	// party, in insertion order.
	ListByLender(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	// ListByBorrower returns transactions where the user is the stored with
	// party, in insertion order.
	ListByBorrower(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	// MarkPaid flips an unpaid transaction to paid. It reports false when the
	// row was already paid (or gone), so the balance effect of a settlement
	// applies at most once even when calls race on the same id.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
