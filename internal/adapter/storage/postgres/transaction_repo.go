package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
//
// Rows are stored in canonical orientation: from_id is always the lender.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction inside an existing database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, from_id, with_id, amount, status, date, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.FromID, t.WithID, t.Amount, t.Status, t.Date, t.Reason, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by its UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, from_id, with_id, amount, status, date, reason, created_at
		FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FromID, &t.WithID, &t.Amount, &t.Status, &t.Date, &t.Reason, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// ListByLender fetches transactions where the user is the stored lender,
// oldest first.
func (r *TransactionRepo) ListByLender(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT id, from_id, with_id, amount, status, date, reason, created_at
		FROM transactions WHERE from_id = $1 ORDER BY created_at`, userID)
}

// ListByBorrower fetches transactions where the user is the stored borrower,
// oldest first.
func (r *TransactionRepo) ListByBorrower(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT id, from_id, with_id, amount, status, date, reason, created_at
		FROM transactions WHERE with_id = $1 ORDER BY created_at`, userID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, userID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.FromID, &t.WithID, &t.Amount, &t.Status, &t.Date, &t.Reason, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// MarkPaid flips a transaction from unpaid to paid inside an existing
// database transaction. The status guard lives in the UPDATE itself so two
// racing settlements cannot both observe unpaid; only the call that wins the
// flip reports true.
func (r *TransactionRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`

	tag, err := tx.Exec(ctx, query, domain.TransactionStatusPaid, id, domain.TransactionStatusUnpaid)
	if err != nil {
		return false, fmt.Errorf("mark transaction paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
