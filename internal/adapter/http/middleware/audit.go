package middleware

import (
	"encoding/json"
	"time"

	"github.com/jeff007ali/lendledger/internal/core/domain"
	"github.com/jeff007ali/lendledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if uid, exists := c.Get(CtxUserID); exists {
			if id, ok := uid.(uuid.UUID); ok {
				userID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditEntry{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/add_transaction" && method == "POST":
		return domain.AuditActionAddTransaction, "transaction"
	case path == "/mark_paid" && method == "PATCH":
		return domain.AuditActionMarkPaid, "transaction"
	}
	return "", ""
}
