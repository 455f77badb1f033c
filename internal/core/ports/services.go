package ports

import (
	"context"
	"time"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerService is the transaction ledger: it creates transactions, settles
// them and answers per-user history queries.
type LedgerService interface {
	Create(ctx context.Context, req CreateTransactionRequest) (uuid.UUID, error)
	MarkPaid(ctx context.Context, transactionID string) error
	History(ctx context.Context, userID string) ([]domain.TransactionView, error)
}

// CreateTransactionRequest holds raw caller input for transaction creation.
// Fields stay strings so the service owns the full validation order.
type CreateTransactionRequest struct {
	FromID string
	WithID string
	Amount float64
	Kind   string // lend | borrow, relative to FromID
	Status string // paid | unpaid
	Date   string // YYYY-MM-DD; lenient, falls back to now
	Reason *string
}

// HistorySource exposes the ledger's cached per-user history queries.
// The credit scoring engine reads through it rather than the store directly.
type HistorySource interface {
	LendHistory(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	BorrowHistory(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
}

// CreditService derives a creditworthiness score from paid history.
type CreditService interface {
	Score(ctx context.Context, userID string) (int, error)
}

// AuthService validates credentials and resolves public profiles.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// LoginResult holds the public profile plus a session token.
type LoginResult struct {
	UserID  uuid.UUID
	Name    string
	Balance float64
	Token   string
	Expiry  time.Time
}

// Profile holds the public fields of a user.
type Profile struct {
	UserID  uuid.UUID
	Name    string
	Balance float64
}

// TokenService handles session token operations.
type TokenService interface {
	Generate(userID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}

// HistoryCache is the read-through cache for per-user history queries.
// Values are JSON-encoded transaction slices; Get returns nil, nil on miss.
// Delete is the synchronous invalidation hook every balance-affecting write
// must call before returning.
type HistoryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// AuditService records write operations after they succeed.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditEntry)
}
