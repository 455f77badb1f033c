package handler

import (
	"github.com/jeff007ali/lendledger/internal/adapter/http/middleware"
	redisStore "github.com/jeff007ali/lendledger/internal/adapter/storage/redis"
	"github.com/jeff007ali/lendledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	CreditSvc      ports.CreditService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	authHandler := NewAuthHandler(deps.AuthSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	creditHandler := NewCreditHandler(deps.CreditSvc)

	// --- Public routes ---
	r.POST("/login", rl("auth_login"), authHandler.Login)
	r.GET("/credit_score", rl("ledger_read"), creditHandler.GetCreditScore)
	r.GET("/get_transactions", rl("ledger_read"), ledgerHandler.GetTransactions)
	r.POST("/add_transaction", rl("ledger_write"), ledgerHandler.AddTransaction)
	r.PATCH("/mark_paid", rl("ledger_markpaid"), ledgerHandler.MarkPaid)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	r.GET("/me", jwtAuth, authHandler.Me)

	return r
}
