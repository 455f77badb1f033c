package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService and ports.HistorySource.
type LedgerServiceImpl struct {
	txRepo     ports.TransactionRepository
	userRepo   ports.UserRepository
	balance    *BalanceEngine
	cache      ports.HistoryCache
	transactor ports.DBTransactor
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	txRepo ports.TransactionRepository,
	userRepo ports.UserRepository,
	balance *BalanceEngine,
	cache ports.HistoryCache,
	transactor ports.DBTransactor,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:     txRepo,
		userRepo:   userRepo,
		balance:    balance,
		cache:      cache,
		transactor: transactor,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Create validates and records a transaction. A borrow is stored as its
// inverse lend, so every stored row reads "from lent amount to with". When
// the transaction arrives already paid, the balance effect is applied in the
// same store transaction as the insert.
func (s *LedgerServiceImpl) Create(ctx context.Context, req ports.CreateTransactionRequest) (uuid.UUID, error) {
	// Validation order and messages are part of the API contract.
	switch {
	case req.FromID == "":
		return uuid.Nil, apperror.Validation("missing from id")
	case req.WithID == "":
		return uuid.Nil, apperror.Validation("missing with id")
	case req.Amount == 0:
		return uuid.Nil, apperror.Validation("missing amount")
	case req.Kind == "":
		return uuid.Nil, apperror.Validation("missing type")
	case req.Status == "":
		return uuid.Nil, apperror.Validation("missing status")
	case req.Amount < 0:
		return uuid.Nil, apperror.Validation("amount must be positive")
	case req.Status != string(domain.TransactionStatusUnpaid) && req.Status != string(domain.TransactionStatusPaid):
		// Caught here rather than by the store's status constraint.
		return uuid.Nil, apperror.Validation("invalid status")
	}

	fromUser, err := s.resolveUser(ctx, req.FromID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("resolve from user: %w", err))
	}
	if fromUser == nil {
		return uuid.Nil, apperror.NotFound("from user not found")
	}

	withUser, err := s.resolveUser(ctx, req.WithID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("resolve with user: %w", err))
	}
	if withUser == nil {
		return uuid.Nil, apperror.NotFound("with user not found")
	}

	// Canonicalize: a borrow by A from B is stored as a lend by B to A.
	storedFrom, storedWith := fromUser, withUser
	if domain.TransactionKind(req.Kind) == domain.TransactionKindBorrow {
		storedFrom, storedWith = withUser, fromUser
	}

	txn := &domain.Transaction{
		ID:        uuid.New(),
		FromID:    storedFrom.ID,
		WithID:    storedWith.ID,
		Amount:    req.Amount,
		Status:    domain.TransactionStatus(req.Status),
		Date:      domain.ParseDate(req.Date),
		Reason:    req.Reason,
		CreatedAt: time.Now().UTC(),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if txn.IsPaid() {
		if err := s.balance.Disburse(ctx, dbTx, txn.FromID, txn.WithID, txn.Amount); err != nil {
			return uuid.Nil, apperror.InternalError(fmt.Errorf("apply balance: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateHistory(ctx, txn.FromID, txn.WithID)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("from", txn.FromID.String()).
		Str("with", txn.WithID.String()).
		Float64("amount", txn.Amount).
		Str("status", string(txn.Status)).
		Msg("transaction created")

	return txn.ID, nil
}

// MarkPaid settles an unpaid transaction: status flips to paid and the
// settlement effect hits both balances in one store transaction. Settling an
// already-paid transaction is a no-op rather than a second balance
// application.
func (s *LedgerServiceImpl) MarkPaid(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return apperror.Validation("missing transaction id")
	}

	id, err := uuid.Parse(transactionID)
	if err != nil {
		return apperror.NotFound("transaction not found")
	}

	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return apperror.NotFound("transaction not found")
	}

	if txn.IsPaid() {
		s.log.Info().Str("tx_id", id.String()).Msg("transaction already paid, skipping settlement")
		return nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	flipped, err := s.txRepo.MarkPaid(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("mark paid: %w", err))
	}
	if !flipped {
		// A concurrent settlement won the flip after our status read; its
		// balance effect already applied.
		s.log.Info().Str("tx_id", id.String()).Msg("transaction already paid, skipping settlement")
		return nil
	}

	if err := s.balance.Settle(ctx, dbTx, txn.FromID, txn.WithID, txn.Amount); err != nil {
		return apperror.InternalError(fmt.Errorf("apply balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateHistory(ctx, txn.FromID, txn.WithID)

	s.log.Info().
		Str("tx_id", id.String()).
		Float64("amount", txn.Amount).
		Msg("transaction marked paid")

	return nil
}

// History returns every transaction the user participates in, projected to
// the user's point of view: lend-view records first (store order), then
// borrow-view records (store order).
func (s *LedgerServiceImpl) History(ctx context.Context, userID string) ([]domain.TransactionView, error) {
	if userID == "" {
		return nil, apperror.Validation("missing user id")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.NotFound("no transactions for user")
	}

	lend, err := s.LendHistory(ctx, uid)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lend history: %w", err))
	}
	borrow, err := s.BorrowHistory(ctx, uid)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("borrow history: %w", err))
	}

	views := make([]domain.TransactionView, 0, len(lend)+len(borrow))
	for _, t := range lend {
		views = append(views, domain.LendView(t))
	}
	for _, t := range borrow {
		views = append(views, domain.BorrowView(t))
	}

	if len(views) == 0 {
		return nil, apperror.NotFound("no transactions for user")
	}
	return views, nil
}

// LendHistory returns transactions where the user is the stored from party,
// read through the history cache.
func (s *LedgerServiceImpl) LendHistory(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return s.cachedList(ctx, domain.LendHistoryKey(userID), func() ([]domain.Transaction, error) {
		return s.txRepo.ListByLender(ctx, userID)
	})
}

// BorrowHistory returns transactions where the user is the stored with party,
// read through the history cache.
func (s *LedgerServiceImpl) BorrowHistory(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return s.cachedList(ctx, domain.BorrowHistoryKey(userID), func() ([]domain.Transaction, error) {
		return s.txRepo.ListByBorrower(ctx, userID)
	})
}

// cachedList serves a history query from the cache, falling back to the
// store on miss or any cache failure. Cache errors never fail the read.
func (s *LedgerServiceImpl) cachedList(ctx context.Context, key string, load func() ([]domain.Transaction, error)) ([]domain.Transaction, error) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("history cache read failed, falling through to store")
	}
	if cached != nil {
		var txns []domain.Transaction
		if err := json.Unmarshal(cached, &txns); err == nil {
			return txns, nil
		}
		s.log.Warn().Str("key", key).Msg("corrupt history cache entry, falling through to store")
	}

	txns, err := load()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(txns); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("history cache write failed")
		}
	}
	return txns, nil
}

// invalidateHistory drops both participants' cached history before the
// mutating call returns, so a follow-up read never sees the pre-write list.
func (s *LedgerServiceImpl) invalidateHistory(ctx context.Context, userIDs ...uuid.UUID) {
	if err := s.cache.Delete(ctx, domain.HistoryKeysFor(userIDs...)...); err != nil {
		s.log.Error().Err(err).Msg("history cache invalidation failed, entries stale until TTL")
	}
}

// resolveUser loads a user by its string id. A malformed id resolves to no
// user, the same as an unknown one.
func (s *LedgerServiceImpl) resolveUser(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, uid)
}
