package service

import (
	"context"
	"testing"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports/mocks"
	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func paid(amount float64) domain.Transaction {
	return domain.Transaction{ID: uuid.New(), Amount: amount, Status: domain.TransactionStatusPaid}
}

func unpaid(amount float64) domain.Transaction {
	return domain.Transaction{ID: uuid.New(), Amount: amount, Status: domain.TransactionStatusUnpaid}
}

func TestCreditService_Score_MissingUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := NewCreditService(mocks.NewMockHistorySource(ctrl), zerolog.Nop())

	_, err := svc.Score(context.Background(), "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "missing user id", appErr.Message)
}

func TestCreditService_Score_MalformedUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := NewCreditService(mocks.NewMockHistorySource(ctrl), zerolog.Nop())

	// Unknown ids score like users with no history: 0 + 100.
	score, err := svc.Score(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestCreditService_Score_NoHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	history := mocks.NewMockHistorySource(ctrl)
	svc := NewCreditService(history, zerolog.Nop())
	uid := uuid.New()

	history.EXPECT().LendHistory(gomock.Any(), uid).Return(nil, nil)
	history.EXPECT().BorrowHistory(gomock.Any(), uid).Return(nil, nil)

	score, err := svc.Score(context.Background(), uid.String())
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestCreditService_Score_UnpaidCarriesNoSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	history := mocks.NewMockHistorySource(ctrl)
	svc := NewCreditService(history, zerolog.Nop())
	uid := uuid.New()

	history.EXPECT().LendHistory(gomock.Any(), uid).Return([]domain.Transaction{unpaid(5000)}, nil)
	history.EXPECT().BorrowHistory(gomock.Any(), uid).Return([]domain.Transaction{unpaid(5000)}, nil)

	score, err := svc.Score(context.Background(), uid.String())
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestCreditService_Score_Combined(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	history := mocks.NewMockHistorySource(ctrl)
	svc := NewCreditService(history, zerolog.Nop())
	uid := uuid.New()

	// Paid lends of 1500 -> 50; paid borrows of 600 -> 50.
	history.EXPECT().LendHistory(gomock.Any(), uid).Return([]domain.Transaction{paid(1000), paid(500)}, nil)
	history.EXPECT().BorrowHistory(gomock.Any(), uid).Return([]domain.Transaction{paid(600), unpaid(900)}, nil)

	score, err := svc.Score(context.Background(), uid.String())
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestLendScore_Buckets(t *testing.T) {
	cases := []struct {
		sum  float64
		want int
	}{
		{0, 0},
		{1000, 0},
		{1000.01, 10},
		{1100, 10},
		{1101, 20},
		{1500, 50},
		{1999, 100},
		{2000, 100},
		{2000.01, 100},
		{999999, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lendScore(tc.sum), "lendScore(%v)", tc.sum)
	}
}

func TestBorrowScore_Buckets(t *testing.T) {
	cases := []struct {
		sum  float64
		want int
	}{
		{0, 100},
		{100, 100},
		{100.01, 90},
		{200, 90},
		{201, 80},
		{600, 50},
		{999, 10},
		{1000, 10},
		{1000.01, 0},
		{999999, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, borrowScore(tc.sum), "borrowScore(%v)", tc.sum)
	}
}
