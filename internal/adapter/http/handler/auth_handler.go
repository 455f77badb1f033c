package handler

import (
	"net/http"

	"github.com/jeff007ali/lendledger/internal/adapter/http/dto"
	"github.com/jeff007ali/lendledger/internal/adapter/http/middleware"
	"github.com/jeff007ali/lendledger/internal/core/ports"
	"github.com/jeff007ali/lendledger/pkg/apperror"
	"github.com/jeff007ali/lendledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /login.
//
// Any failure, malformed body included, answers with the same
// invalid-credentials error so callers cannot probe for usernames.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidCredentials())
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Name:    result.Name,
		Balance: result.Balance,
		UserID:  result.UserID.String(),
		Token:   result.Token,
	})
}

// Me handles GET /me — the authenticated user's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	uid, exists := c.Get(middleware.CtxUserID)
	userID, ok := uid.(uuid.UUID)
	if !exists || !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProfileResponse{
		UserID:  profile.UserID.String(),
		Name:    profile.Name,
		Balance: profile.Balance,
	})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
