package handler

import (
	"momo-ledger/internal/adapter/http/middleware"
	"momo-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc         ports.AuthService
	PaymentSvc      ports.PaymentService
	AccountRepo     ports.AccountRepository
	TransactionRepo ports.TransactionRepository
	TokenSvc        ports.TokenService
	HealthCheckers  []ports.HealthChecker
	Currency        string
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-otp", authHandler.VerifyOtp)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// --- JWT-authenticated routes (customer API) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	paymentHandler := NewPaymentHandler(deps.PaymentSvc, deps.AccountRepo, deps.TransactionRepo, deps.Currency)

	payments := v1.Group("/payments", jwtAuth)
	{
		payments.POST("/cashin", paymentHandler.CashIn)
		payments.POST("/cashout", paymentHandler.CashOut)
		payments.POST("/transfer", paymentHandler.Transfer)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", paymentHandler.ListTransactions)
		transactions.GET("/:id", paymentHandler.GetTransaction)
	}

	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.GET("/balance", paymentHandler.GetBalance)
	}

	return r
}
