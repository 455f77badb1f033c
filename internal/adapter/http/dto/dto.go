package dto

import "github.com/jeff007ali/lendledger/internal/core/domain"

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	UserID  string  `json:"user_id"`
	Token   string  `json:"token"`
}

// UserIDRequest carries the user identifier for history and score lookups.
type UserIDRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

// AddTransactionRequest is the request body for transaction creation.
// No binding tags: field presence is validated downstream so missing
// fields produce their documented messages in a fixed order.
type AddTransactionRequest struct {
	TransactionFrom   string  `json:"transaction_from"`
	TransactionWith   string  `json:"transaction_with"`
	TransactionAmount float64 `json:"transaction_amount"`
	TransactionType   string  `json:"transaction_type"`
	TransactionStatus string  `json:"transaction_status"`
	TransactionDate   string  `json:"transaction_date"`
	Reason            *string `json:"reason,omitempty"`
}

// MarkPaidRequest is the request body for settling a transaction.
type MarkPaidRequest struct {
	TransactionID string `json:"transaction_id"`
}

// MessageResponse is the generic acknowledgement body for writes.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreditScoreResponse is the response for a credit score query.
type CreditScoreResponse struct {
	CreditScore int `json:"credit_score"`
}

// TransactionRecord is one history row as seen by the queried user.
type TransactionRecord struct {
	TransactionID     string  `json:"transaction_id"`
	TransactionDate   string  `json:"transaction_date"`
	TransactionFrom   string  `json:"transaction_from"`
	TransactionWith   string  `json:"transaction_with"`
	TransactionStatus string  `json:"transaction_status"`
	TransactionAmount float64 `json:"transaction_amount"`
	TransactionType   string  `json:"transaction_type"`
	Reason            *string `json:"reason,omitempty"`
}

// TransactionsResponse is the response for a history query.
type TransactionsResponse struct {
	UserID       string              `json:"user_id"`
	Transactions []TransactionRecord `json:"transactions"`
}

// ProfileResponse is the response for the authenticated profile endpoint.
type ProfileResponse struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// NewTransactionRecord converts a per-viewer projection to its wire shape.
func NewTransactionRecord(v domain.TransactionView) TransactionRecord {
	return TransactionRecord{
		TransactionID:     v.ID.String(),
		TransactionDate:   v.Date.Format(domain.DateLayout),
		TransactionFrom:   v.FromID.String(),
		TransactionWith:   v.WithID.String(),
		TransactionStatus: string(v.Status),
		TransactionAmount: v.Amount,
		TransactionType:   string(v.Kind),
		Reason:            v.Reason,
	}
}

// NewTransactionRecords converts a projection list, preserving order.
func NewTransactionRecords(views []domain.TransactionView) []TransactionRecord {
	records := make([]TransactionRecord, 0, len(views))
	for _, v := range views {
		records = append(records, NewTransactionRecord(v))
	}
	return records
}
