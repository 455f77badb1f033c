package service

import (
	"context"
	"fmt"
	"math"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreditServiceImpl implements ports.CreditService. Scores are derived from
// paid volume only; unpaid transactions carry no signal. All reads go
// through the ledger's cached history queries.
type CreditServiceImpl struct {
	history ports.HistorySource
	log     zerolog.Logger
}

// NewCreditService creates a new CreditServiceImpl.
func NewCreditService(history ports.HistorySource, log zerolog.Logger) *CreditServiceImpl {
	return &CreditServiceImpl{history: history, log: log}
}

// Score computes lendScore(paid lend volume) + borrowScore(paid borrow
// volume). A user with no paid history scores lendScore(0)+borrowScore(0).
func (s *CreditServiceImpl) Score(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, apperror.Validation("missing user id")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		// Unknown ids score like users with no history.
		return lendScore(0) + borrowScore(0), nil
	}

	lend, err := s.history.LendHistory(ctx, uid)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lend history: %w", err))
	}
	borrow, err := s.history.BorrowHistory(ctx, uid)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("borrow history: %w", err))
	}

	lendSum := paidSum(lend)
	borrowSum := paidSum(borrow)
	total := lendScore(lendSum) + borrowScore(borrowSum)

	s.log.Debug().
		Str("user_id", uid.String()).
		Float64("lend_sum", lendSum).
		Float64("borrow_sum", borrowSum).
		Int("score", total).
		Msg("credit score computed")

	return total, nil
}

func paidSum(txns []domain.Transaction) float64 {
	var sum float64
	for _, t := range txns {
		if t.IsPaid() {
			sum += t.Amount
		}
	}
	return sum
}

// lendScore maps paid lend volume through closed 100-unit buckets:
// [0,1000] -> 0, (1000,1100] -> 10, ... (1900,2000] -> 100, beyond -> 100.
func lendScore(sum float64) int {
	switch {
	case sum <= 1000:
		return 0
	case sum > 2000:
		return 100
	}
	return int(math.Ceil((sum-1000)/100)) * 10
}

// borrowScore maps paid borrow volume through the inverse table:
// [0,100] -> 100, (100,200] -> 90, ... (900,1000] -> 10, beyond -> 0.
func borrowScore(sum float64) int {
	switch {
	case sum <= 100:
		return 100
	case sum > 1000:
		return 0
	}
	return 100 - int(math.Ceil((sum-100)/100))*10
}
