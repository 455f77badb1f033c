package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/internal/core/ports/mocks"
	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc        *LedgerServiceImpl
	txRepo     *mocks.MockTransactionRepository
	userRepo   *mocks.MockUserRepository
	cache      *mocks.MockHistoryCache
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		userRepo:   mocks.NewMockUserRepository(ctrl),
		cache:      mocks.NewMockHistoryCache(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewLedgerService(
		d.txRepo, d.userRepo, NewBalanceEngine(d.userRepo),
		d.cache, d.transactor, time.Minute, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func validCreateRequest(from, with uuid.UUID) ports.CreateTransactionRequest {
	return ports.CreateTransactionRequest{
		FromID: from.String(),
		WithID: with.String(),
		Amount: 100,
		Kind:   "lend",
		Status: "unpaid",
		Date:   "2026-01-15",
	}
}

// ==================== Create Tests ====================

func TestLedgerService_Create_ValidationOrder(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()

	cases := []struct {
		name    string
		mutate  func(*ports.CreateTransactionRequest)
		message string
	}{
		{"missing from", func(r *ports.CreateTransactionRequest) { r.FromID = "" }, "missing from id"},
		{"missing with", func(r *ports.CreateTransactionRequest) { r.WithID = "" }, "missing with id"},
		{"missing amount", func(r *ports.CreateTransactionRequest) { r.Amount = 0 }, "missing amount"},
		{"missing type", func(r *ports.CreateTransactionRequest) { r.Kind = "" }, "missing type"},
		{"missing status", func(r *ports.CreateTransactionRequest) { r.Status = "" }, "missing status"},
		{"negative amount", func(r *ports.CreateTransactionRequest) { r.Amount = -5 }, "amount must be positive"},
		{"unknown status", func(r *ports.CreateTransactionRequest) { r.Status = "settled" }, "invalid status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest(from, with)
			tc.mutate(&req)

			_, err := d.svc.Create(ctx, req)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Equal(t, 400, appErr.HTTPStatus)
		})
	}
}

func TestLedgerService_Create_MissingFieldsBeatNegativeAmount(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	// A request with both a negative amount and a missing type reports the
	// missing field first.
	req := validCreateRequest(uuid.New(), uuid.New())
	req.Amount = -5
	req.Kind = ""

	_, err := d.svc.Create(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "missing type", appErr.Message)
}

func TestLedgerService_Create_FromUserNotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, from).Return(nil, nil)

	_, err := d.svc.Create(ctx, validCreateRequest(from, with))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "from user not found", appErr.Message)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestLedgerService_Create_WithUserNotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, from).Return(&domain.User{ID: from}, nil)
	d.userRepo.EXPECT().GetByID(ctx, with).Return(nil, nil)

	_, err := d.svc.Create(ctx, validCreateRequest(from, with))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "with user not found", appErr.Message)
}

func TestLedgerService_Create_MalformedFromID(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	// A malformed id is treated like an unknown one; no store lookup happens.
	req := validCreateRequest(uuid.New(), uuid.New())
	req.FromID = "not-a-uuid"

	_, err := d.svc.Create(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "from user not found", appErr.Message)
}

func TestLedgerService_Create_UnpaidLend(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, from).Return(&domain.User{ID: from}, nil)
	d.userRepo.EXPECT().GetByID(ctx, with).Return(&domain.User{ID: with}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)

	var stored *domain.Transaction
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			stored = txn
			return nil
		})
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	id, err := d.svc.Create(ctx, validCreateRequest(from, with))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, from, stored.FromID)
	assert.Equal(t, with, stored.WithID)
	assert.Equal(t, domain.TransactionStatusUnpaid, stored.Status)
	assert.Equal(t, "2026-01-15", stored.Date.Format(domain.DateLayout))
}

func TestLedgerService_Create_BorrowStoredInverted(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, from).Return(&domain.User{ID: from}, nil)
	d.userRepo.EXPECT().GetByID(ctx, with).Return(&domain.User{ID: with}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)

	var stored *domain.Transaction
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			stored = txn
			return nil
		})
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	req := validCreateRequest(from, with)
	req.Kind = "borrow"

	_, err := d.svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, stored)
	// A borrow by from is stored as a lend by with.
	assert.Equal(t, with, stored.FromID)
	assert.Equal(t, from, stored.WithID)
}

func TestLedgerService_Create_PaidAppliesBalances(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, from).Return(&domain.User{ID: from, Balance: 500}, nil)
	d.userRepo.EXPECT().GetByID(ctx, with).Return(&domain.User{ID: with, Balance: 200}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	// Both rows locked, then from +100 and with -100.
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, from).Return(&domain.User{ID: from, Balance: 500}, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, with).Return(&domain.User{ID: with, Balance: 200}, nil)
	d.userRepo.EXPECT().UpdateBalance(ctx, tx, from, 600.0).Return(nil)
	d.userRepo.EXPECT().UpdateBalance(ctx, tx, with, 100.0).Return(nil)
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	req := validCreateRequest(from, with)
	req.Status = "paid"

	_, err := d.svc.Create(ctx, req)
	require.NoError(t, err)
}

// ==================== MarkPaid Tests ====================

func TestLedgerService_MarkPaid_MissingID(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	err := d.svc.MarkPaid(context.Background(), "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "missing transaction id", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestLedgerService_MarkPaid_MalformedID(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	err := d.svc.MarkPaid(context.Background(), "nope")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "transaction not found", appErr.Message)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestLedgerService_MarkPaid_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	d.txRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	err := d.svc.MarkPaid(ctx, id.String())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "transaction not found", appErr.Message)
}

func TestLedgerService_MarkPaid_Settles(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	from, with := uuid.New(), uuid.New()
	tx := &mockTx{}

	txn := &domain.Transaction{
		ID:     uuid.New(),
		FromID: from,
		WithID: with,
		Amount: 100,
		Status: domain.TransactionStatusUnpaid,
	}

	d.txRepo.EXPECT().GetByID(ctx, txn.ID).Return(txn, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().MarkPaid(ctx, tx, txn.ID).Return(true, nil)

	// Settlement reverses the disburse signs: from -100, with +100.
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, from).Return(&domain.User{ID: from, Balance: 600}, nil)
	d.userRepo.EXPECT().GetByIDForUpdate(ctx, tx, with).Return(&domain.User{ID: with, Balance: 100}, nil)
	d.userRepo.EXPECT().UpdateBalance(ctx, tx, from, 500.0).Return(nil)
	d.userRepo.EXPECT().UpdateBalance(ctx, tx, with, 200.0).Return(nil)
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.MarkPaid(ctx, txn.ID.String())
	require.NoError(t, err)
}

func TestLedgerService_MarkPaid_AlreadyPaidIsNoOp(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	txn := &domain.Transaction{
		ID:     uuid.New(),
		FromID: uuid.New(),
		WithID: uuid.New(),
		Amount: 100,
		Status: domain.TransactionStatusPaid,
	}

	// No Begin, no status flip, no balance writes.
	d.txRepo.EXPECT().GetByID(ctx, txn.ID).Return(txn, nil)

	err := d.svc.MarkPaid(ctx, txn.ID.String())
	assert.NoError(t, err)
}

func TestLedgerService_MarkPaid_LostFlipSkipsSettlement(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	tx := &mockTx{}

	txn := &domain.Transaction{
		ID:     uuid.New(),
		FromID: uuid.New(),
		WithID: uuid.New(),
		Amount: 100,
		Status: domain.TransactionStatusUnpaid,
	}

	// The status read sees unpaid, but another settlement flips the row
	// before ours does. No balance writes, no cache invalidation.
	d.txRepo.EXPECT().GetByID(ctx, txn.ID).Return(txn, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().MarkPaid(ctx, tx, txn.ID).Return(false, nil)

	err := d.svc.MarkPaid(ctx, txn.ID.String())
	assert.NoError(t, err)
}

// ==================== History Tests ====================

func TestLedgerService_History_MissingUserID(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.History(context.Background(), "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "missing user id", appErr.Message)
}

func TestLedgerService_History_MalformedUserID(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.History(context.Background(), "not-a-uuid")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "no transactions for user", appErr.Message)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestLedgerService_History_Empty(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	uid := uuid.New()

	d.cache.EXPECT().Get(ctx, domain.LendHistoryKey(uid)).Return(nil, nil)
	d.txRepo.EXPECT().ListByLender(ctx, uid).Return(nil, nil)
	d.cache.EXPECT().Set(ctx, domain.LendHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)
	d.cache.EXPECT().Get(ctx, domain.BorrowHistoryKey(uid)).Return(nil, nil)
	d.txRepo.EXPECT().ListByBorrower(ctx, uid).Return(nil, nil)
	d.cache.EXPECT().Set(ctx, domain.BorrowHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)

	_, err := d.svc.History(ctx, uid.String())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "no transactions for user", appErr.Message)
}

func TestLedgerService_History_ProjectsBothViews(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	uid := uuid.New()
	other := uuid.New()

	lent := domain.Transaction{ID: uuid.New(), FromID: uid, WithID: other, Amount: 50, Status: domain.TransactionStatusUnpaid}
	borrowed := domain.Transaction{ID: uuid.New(), FromID: other, WithID: uid, Amount: 70, Status: domain.TransactionStatusPaid}

	d.cache.EXPECT().Get(ctx, domain.LendHistoryKey(uid)).Return(nil, nil)
	d.txRepo.EXPECT().ListByLender(ctx, uid).Return([]domain.Transaction{lent}, nil)
	d.cache.EXPECT().Set(ctx, domain.LendHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)
	d.cache.EXPECT().Get(ctx, domain.BorrowHistoryKey(uid)).Return(nil, nil)
	d.txRepo.EXPECT().ListByBorrower(ctx, uid).Return([]domain.Transaction{borrowed}, nil)
	d.cache.EXPECT().Set(ctx, domain.BorrowHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)

	views, err := d.svc.History(ctx, uid.String())
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Lend-view rows first, then borrow-view rows.
	assert.Equal(t, domain.TransactionKindLend, views[0].Kind)
	assert.Equal(t, uid, views[0].FromID)
	assert.Equal(t, other, views[0].WithID)

	// The borrow view swaps orientation so the queried user is always from.
	assert.Equal(t, domain.TransactionKindBorrow, views[1].Kind)
	assert.Equal(t, uid, views[1].FromID)
	assert.Equal(t, other, views[1].WithID)
}

func TestLedgerService_History_ServedFromCache(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	uid := uuid.New()

	lent := []domain.Transaction{{ID: uuid.New(), FromID: uid, WithID: uuid.New(), Amount: 50, Status: domain.TransactionStatusPaid}}
	encoded, err := json.Marshal(lent)
	require.NoError(t, err)
	emptyEncoded, err := json.Marshal([]domain.Transaction{})
	require.NoError(t, err)

	// Cache hits on both keys: the store is never touched.
	d.cache.EXPECT().Get(ctx, domain.LendHistoryKey(uid)).Return(encoded, nil)
	d.cache.EXPECT().Get(ctx, domain.BorrowHistoryKey(uid)).Return(emptyEncoded, nil)

	views, err := d.svc.History(ctx, uid.String())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, lent[0].ID, views[0].ID)
}

func TestLedgerService_History_CacheErrorFallsThrough(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	uid := uuid.New()

	lent := []domain.Transaction{{ID: uuid.New(), FromID: uid, WithID: uuid.New(), Amount: 10, Status: domain.TransactionStatusUnpaid}}

	d.cache.EXPECT().Get(ctx, domain.LendHistoryKey(uid)).Return(nil, assert.AnError)
	d.txRepo.EXPECT().ListByLender(ctx, uid).Return(lent, nil)
	d.cache.EXPECT().Set(ctx, domain.LendHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)
	d.cache.EXPECT().Get(ctx, domain.BorrowHistoryKey(uid)).Return(nil, assert.AnError)
	d.txRepo.EXPECT().ListByBorrower(ctx, uid).Return(nil, nil)
	d.cache.EXPECT().Set(ctx, domain.BorrowHistoryKey(uid), gomock.Any(), time.Minute).Return(nil)

	views, err := d.svc.History(ctx, uid.String())
	require.NoError(t, err)
	assert.Len(t, views, 1)
}
