package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceEngine applies a transaction's monetary effect to both participant
// balances. Every application runs inside a caller-supplied store transaction
// so the two row updates commit or roll back as one unit; a partial update is
// never observable.
type BalanceEngine struct {
	userRepo ports.UserRepository
}

// NewBalanceEngine creates a BalanceEngine over the given user repository.
func NewBalanceEngine(userRepo ports.UserRepository) *BalanceEngine {
	return &BalanceEngine{userRepo: userRepo}
}

// Disburse applies the creation-time paid effect of a canonical lend record:
// the stored from party is credited the amount, the stored with party debited.
func (e *BalanceEngine) Disburse(ctx context.Context, tx pgx.Tx, fromID, withID uuid.UUID, amount float64) error {
	return e.apply(ctx, tx, fromID, withID, amount, -amount)
}

// Settle applies the mark-paid effect, the inverse-signed complement of
// Disburse: the stored from party is debited, the stored with party credited.
func (e *BalanceEngine) Settle(ctx context.Context, tx pgx.Tx, fromID, withID uuid.UUID, amount float64) error {
	return e.apply(ctx, tx, fromID, withID, -amount, amount)
}

func (e *BalanceEngine) apply(ctx context.Context, tx pgx.Tx, fromID, withID uuid.UUID, fromDelta, withDelta float64) error {
	// Lock both rows in ascending id order; concurrent writes over the same
	// pair then always queue instead of deadlocking.
	ids := []uuid.UUID{fromID, withID}
	if bytes.Compare(ids[0][:], ids[1][:]) > 0 {
		ids[0], ids[1] = ids[1], ids[0]
	}

	locked := make(map[uuid.UUID]*domain.User, 2)
	for _, id := range ids {
		u, err := e.userRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("lock user %s: %w", id, err)
		}
		if u == nil {
			return fmt.Errorf("user %s not found during balance update", id)
		}
		locked[id] = u
	}

	if err := e.userRepo.UpdateBalance(ctx, tx, fromID, locked[fromID].Balance+fromDelta); err != nil {
		return fmt.Errorf("update from balance: %w", err)
	}
	if err := e.userRepo.UpdateBalance(ctx, tx, withID, locked[withID].Balance+withDelta); err != nil {
		return fmt.Errorf("update with balance: %w", err)
	}
	return nil
}
