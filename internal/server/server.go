package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "jaspire-api/docs" // swag-generated API docs
	"jaspire-api/internal/auth"
	"jaspire-api/internal/client/alpaca"
	"jaspire-api/internal/client/mastercard"
	"jaspire-api/internal/client/plaid"
	"jaspire-api/internal/config"
	"jaspire-api/internal/db"
	"jaspire-api/internal/handlers"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/middleware"
	"jaspire-api/internal/queue"
	"jaspire-api/internal/services"
)

// Handler definitions
var (
	healthHandler     *handlers.HealthHandler
	userHandler       *handlers.UserHandler
	investmentHandler *handlers.InvestmentHandler
	onboardingHandler *handlers.OnboardingHandler
	mastercardHandler *handlers.MastercardHandler
	plaidHandler      *handlers.PlaidHandler
	cashbackHandler   *handlers.CashbackHandler

	cfg *config.Config
)

// InitializeHandlers loads configuration and wires every handler. Provider
// adapters are selected exactly once here: real clients when credentials are
// configured, mock adapters otherwise.
func InitializeHandlers() {
	ctx := context.Background()
	cfg = config.Load(ctx)

	// Profile store: Postgres when configured, in-memory for demos.
	var querier db.Querier
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Unable to parse database connection string", zap.Error(err))
		}
		poolConfig.MaxConns = 20
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = time.Minute * 30

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Fatal("Unable to create connection pool", zap.Error(err))
		}
		querier = db.New(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory profile store")
		querier = db.NewMemoryStore()
	}

	// Broker adapter.
	var broker alpaca.Broker
	if cfg.Alpaca.Configured() {
		broker = alpaca.NewBrokerClient(cfg.Alpaca.BaseURL, cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	} else {
		logger.Warn("Alpaca credentials not set, using mock broker")
		broker = alpaca.NewMockBroker()
	}

	// Open-banking adapter.
	var banking mastercard.OpenBanking
	if cfg.Mastercard.Configured() {
		banking = mastercard.NewClient(cfg.Mastercard.BaseURL, cfg.Mastercard.PartnerID, cfg.Mastercard.PartnerSecret, cfg.Mastercard.AppKey)
	} else {
		logger.Warn("Mastercard partner credentials not set, using mock open-banking data")
		banking = mastercard.NewMockOpenBanking()
	}

	// Bank-link adapter.
	var bankLink plaid.BankLink
	if cfg.Plaid.Configured() {
		bankLink = plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Environment)
	} else {
		logger.Warn("Plaid credentials not set, using mock bank link")
		bankLink = plaid.NewMockBankLink()
	}

	repairQueue, err := queue.NewRepairQueue(ctx, cfg.RepairQueueURL)
	if err != nil {
		logger.Warn("Profile repair queue unavailable", zap.Error(err))
	}

	var email *services.EmailService
	if cfg.Resend.Configured() {
		email = services.NewEmailService(cfg.Resend.APIKey, cfg.Resend.FromEmail, cfg.Resend.FromName, logger.Log)
	}

	accounts := services.NewAccountService(querier, broker, repairQueue, email)
	commonServices := handlers.NewCommonServices(querier, accounts, banking, bankLink)

	healthHandler = handlers.NewHealthHandler()
	userHandler = handlers.NewUserHandler(commonServices)
	investmentHandler = handlers.NewInvestmentHandler(commonServices)
	onboardingHandler = handlers.NewOnboardingHandler(commonServices)
	mastercardHandler = handlers.NewMastercardHandler(commonServices)
	plaidHandler = handlers.NewPlaidHandler(commonServices)
	cashbackHandler = handlers.NewCashbackHandler(commonServices)
}

// InitializeRoutes attaches middleware and routes to the router.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler.Health)

	if os.Getenv("GIN_MODE") != "release" {
		router.Use(handlers.LogRequest())
	}

	// Provider proxies share one rate limiter per client.
	providerLimiter := middleware.NewRateLimiter(10, 20)

	api := router.Group("/api")
	api.Use(auth.EnsureValidSession(cfg.FirebaseProjectID))
	{
		// Profile
		api.GET("/users/me", userHandler.GetCurrentUser)
		api.PUT("/users/me", userHandler.UpdateCurrentUser)

		// Onboarding wizard sessions
		onboardingGroup := api.Group("/onboarding")
		{
			onboardingGroup.POST("/sessions", onboardingHandler.CreateSession)
			onboardingGroup.GET("/sessions/:session_id", onboardingHandler.GetSession)
			onboardingGroup.PATCH("/sessions/:session_id/form", onboardingHandler.UpdateForm)
			onboardingGroup.POST("/sessions/:session_id/advance", onboardingHandler.Advance)
			onboardingGroup.POST("/sessions/:session_id/retreat", onboardingHandler.Retreat)
			onboardingGroup.POST("/sessions/:session_id/skip", onboardingHandler.Skip)
			onboardingGroup.POST("/sessions/:session_id/submit", onboardingHandler.Submit)
			onboardingGroup.POST("/sessions/:session_id/retry", onboardingHandler.RetrySubmission)
		}

		// Brokerage account creation
		api.POST("/alpaca/create-account", providerLimiter.Middleware(), investmentHandler.CreateAccount)

		// Open banking
		mastercardGroup := api.Group("/mastercard", providerLimiter.Middleware())
		{
			mastercardGroup.POST("/generate-connect-url", mastercardHandler.GenerateConnectURL)
			mastercardGroup.POST("/exchange-connect-code", mastercardHandler.ExchangeConnectCode)
			mastercardGroup.GET("/transactions", mastercardHandler.ListTransactions)
			mastercardGroup.GET("/institutions", mastercardHandler.Institutions)
		}

		// Bank linking and transfers
		plaidGroup := api.Group("/plaid", providerLimiter.Middleware())
		{
			plaidGroup.POST("/create-link-token", plaidHandler.CreateLinkToken)
			plaidGroup.POST("/exchange-public-token", plaidHandler.ExchangePublicToken)
			plaidGroup.POST("/transfer", plaidHandler.CreateTransfer)
		}

		// Cashback
		api.GET("/cashback/summary", cashbackHandler.Summary)
		api.POST("/cashback/invest-preview", cashbackHandler.InvestPreview)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Demo-User", "X-Demo-Email", "X-Demo-Name"}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
