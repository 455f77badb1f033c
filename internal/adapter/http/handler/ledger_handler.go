package handler

import (
	"fmt"

	"github.com/jeff007ali/lendledger/internal/adapter/http/dto"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles transaction ledger endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// AddTransaction handles POST /add_transaction.
//
// Field validation happens in the service so missing fields answer with
// their documented messages in a fixed order; an unparseable body is
// equivalent to a body with every field absent.
func (h *LedgerHandler) AddTransaction(c *gin.Context) {
	var req dto.AddTransactionRequest
	_ = c.ShouldBindJSON(&req)

	id, err := h.ledgerSvc.Create(c.Request.Context(), ports.CreateTransactionRequest{
		FromID: req.TransactionFrom,
		WithID: req.TransactionWith,
		Amount: req.TransactionAmount,
		Kind:   req.TransactionType,
		Status: req.TransactionStatus,
		Date:   req.TransactionDate,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{
		Message: fmt.Sprintf("transaction %s added successfully", id),
	})
}

// MarkPaid handles PATCH /mark_paid.
func (h *LedgerHandler) MarkPaid(c *gin.Context) {
	var req dto.MarkPaidRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.ledgerSvc.MarkPaid(c.Request.Context(), req.TransactionID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{
		Message: "transaction marked as paid",
	})
}

// GetTransactions handles GET /get_transactions.
func (h *LedgerHandler) GetTransactions(c *gin.Context) {
	userID := bindUserID(c)

	views, err := h.ledgerSvc.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransactionsResponse{
		UserID:       userID,
		Transactions: dto.NewTransactionRecords(views),
	})
}

// bindUserID extracts user_id from the query string, falling back to a
// JSON body for callers that send GET requests with a body.
func bindUserID(c *gin.Context) string {
	if id := c.Query("user_id"); id != "" {
		return id
	}
	var req dto.UserIDRequest
	_ = c.ShouldBindJSON(&req)
	return req.UserID
}
