package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day wire format for transaction dates.
const DateLayout = "2006-01-02"

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusUnpaid TransactionStatus = "unpaid"
	TransactionStatusPaid   TransactionStatus = "paid"
)

// TransactionKind is a per-viewer projection, never a stored column:
// the same row is a lend to its From party and a borrow to its With party.
type TransactionKind string

const (
	TransactionKindLend   TransactionKind = "lend"
	TransactionKindBorrow TransactionKind = "borrow"
)

// Transaction is a canonical directed ledger record: From is always the
// lender, With always the borrower. The only permitted mutation after
// creation is the one-way status transition unpaid -> paid.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	FromID    uuid.UUID         `json:"from_id"`
	WithID    uuid.UUID         `json:"with_id"`
	Amount    float64           `json:"amount"` // Strictly positive at creation
	Status    TransactionStatus `json:"status"`
	Date      time.Time         `json:"date"` // Calendar-day granularity
	Reason    *string           `json:"reason,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// IsPaid reports whether the transaction has been settled.
func (t *Transaction) IsPaid() bool {
	return t.Status == TransactionStatusPaid
}

// TransactionView is a transaction as seen by one participant, with the
// lend/borrow kind and from/with orientation resolved for that viewer.
type TransactionView struct {
	ID     uuid.UUID
	Date   time.Time
	FromID uuid.UUID
	WithID uuid.UUID
	Status TransactionStatus
	Amount float64
	Kind   TransactionKind
	Reason *string
}

// LendView projects a transaction for its stored From party: they extended
// the money, so the record keeps its stored orientation.
func LendView(t Transaction) TransactionView {
	return TransactionView{
		ID:     t.ID,
		Date:   t.Date,
		FromID: t.FromID,
		WithID: t.WithID,
		Status: t.Status,
		Amount: t.Amount,
		Kind:   TransactionKindLend,
		Reason: t.Reason,
	}
}

// BorrowView projects a transaction for its stored With party: they owe the
// money, so from/with are swapped and the kind inverts to borrow.
func BorrowView(t Transaction) TransactionView {
	return TransactionView{
		ID:     t.ID,
		Date:   t.Date,
		FromID: t.WithID,
		WithID: t.FromID,
		Status: t.Status,
		Amount: t.Amount,
		Kind:   TransactionKindBorrow,
		Reason: t.Reason,
	}
}

// ParseDate parses a YYYY-MM-DD wire date. An unparseable or empty value
// falls back to the current time instead of rejecting the request.
func ParseDate(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Now().UTC()
	}
	return d
}
