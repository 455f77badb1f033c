package handler

import (
	"github.com/jeff007ali/lendledger/internal/adapter/http/dto"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreditHandler handles credit score endpoints.
type CreditHandler struct {
	creditSvc ports.CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditSvc ports.CreditService) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc}
}

// GetCreditScore handles GET /credit_score.
func (h *CreditHandler) GetCreditScore(c *gin.Context) {
	userID := bindUserID(c)

	score, err := h.creditSvc.Score(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CreditScoreResponse{CreditScore: score})
}
