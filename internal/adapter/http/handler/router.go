package handler

import (
	"solar-ledger/internal/adapter/http/middleware"
	redisStore "solar-ledger/internal/adapter/storage/redis"
	"solar-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	MarketSvc      ports.MarketService
	IntegritySvc   ports.IntegrityService
	QuerySvc       ports.QueryService
	NodeName       string
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// Routes are mounted at the root: the demo site's front end and peer nodes
// both call these paths unprefixed.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies Redis when enabled)
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

	// --- Energy market ---
	marketHandler := NewMarketHandler(deps.MarketSvc)
	energy := r.Group("/energy")
	{
		energy.POST("/list", rl("energy"), marketHandler.ListEnergy)
		energy.POST("/match", rl("energy"), marketHandler.Match)
		energy.GET("", rl("energy"), marketHandler.GetMarket)
	}

	// --- Wallet ledger ---
	walletHandler := NewWalletHandler(deps.LedgerSvc)
	wallets := r.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("/:id", rl("wallets"), walletHandler.Get)
		wallets.POST("/:id/transfer", rl("wallets"), walletHandler.Transfer)
	}

	// --- Protocol integrity ---
	integrityHandler := NewIntegrityHandler(deps.IntegritySvc, deps.NodeName)
	integrity := r.Group("/integrity")
	{
		// The bare report stays unthrottled: peers poll it during validation.
		integrity.GET("", integrityHandler.GetReport)
		integrity.POST("/validate", rl("integrity"), integrityHandler.Validate)
	}

	// --- Kid-friendly queries ---
	queryHandler := NewQueryHandler(deps.QuerySvc)
	r.POST("/kid/query", rl("query"), queryHandler.Query)

	return r
}
