package handler

import (
	"campuscoin-ledger/internal/adapter/http/middleware"
	redisStore "campuscoin-ledger/internal/adapter/storage/redis"
	"campuscoin-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	RegistrySvc    ports.RegistryService
	QuerySvc       ports.QueryService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

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

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/token", rl("auth_token"), authHandler.IssueToken)
	}

	queryHandler := NewQueryHandler(deps.QuerySvc)
	registryHandler := NewRegistryHandler(deps.RegistrySvc)
	{
		v1.GET("/ledger", rl("queries"), queryHandler.GetTokenInfo)
		v1.GET("/ledger/audit", rl("queries"), queryHandler.GetAudit)
		v1.GET("/accounts/:address", rl("queries"), queryHandler.GetAccount)
		v1.GET("/accounts/:address/allowances/:spender", rl("queries"), queryHandler.GetAllowance)
		v1.GET("/students/:address", rl("queries"), registryHandler.GetStudent)
		v1.GET("/providers/:address", rl("queries"), registryHandler.GetProvider)
		v1.GET("/events", rl("queries"), queryHandler.ListEvents)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)

	students := v1.Group("/students", jwtAuth)
	{
		students.POST("", rl("registry"), registryHandler.AddStudent)
		students.DELETE("/:address", rl("registry"), registryHandler.RemoveStudent)
	}

	providers := v1.Group("/providers", jwtAuth)
	{
		providers.POST("", rl("registry"), registryHandler.AddProvider)
		providers.DELETE("/:address", rl("registry"), registryHandler.RemoveProvider)
		providers.PUT("/:address", rl("registry"), registryHandler.UpdateProvider)
	}

	ledger := v1.Group("/ledger", jwtAuth)
	{
		ledger.POST("/mint", rl("ledger"), ledgerHandler.Mint)
		ledger.POST("/burn", rl("ledger"), ledgerHandler.Burn)
		ledger.POST("/transfer", rl("ledger"), ledgerHandler.Transfer)
		ledger.POST("/approve", rl("ledger"), ledgerHandler.Approve)
		ledger.POST("/transfer-from", rl("ledger"), ledgerHandler.TransferFrom)
		ledger.POST("/pay", rl("ledger"), ledgerHandler.PayService)
	}

	return r
}
