package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ksred/auction-api/internal/agreement"
	"github.com/ksred/auction-api/internal/auction"
	"github.com/ksred/auction-api/internal/auth"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/config"
	"github.com/ksred/auction-api/internal/currency"
	"github.com/ksred/auction-api/internal/database"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/sweeper"
	"github.com/ksred/auction-api/internal/watchlist"
	"github.com/ksred/auction-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the auction API server with graceful shutdown
// support. It wires the bidding engine, its collaborators, and the lifecycle
// sweeper around a single per-auction serialization registry.
func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(cfg.JWTSecret)
	authHandlers := auth.NewGinHandlers(authService)
	// Register test credentials
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	ledgerService := ledger.NewService(db)
	ledgerHandlers := ledger.NewGinHandlers(ledgerService)

	actors := bidding.NewActorRegistry()

	engine := bidding.NewEngine(db, ledgerService, actors)
	biddingHandlers := bidding.NewGinHandlers(engine)

	auctionService := auction.NewService(db, actors)
	auctionHandlers := auction.NewGinHandlers(auctionService)

	agreementService := agreement.NewService(db, actors)
	agreementHandlers := agreement.NewGinHandlers(agreementService)

	currencyHandlers := currency.NewGinHandlers()

	watchlistService := watchlist.NewService(db)
	watchlistHandlers := watchlist.NewGinHandlers(watchlistService)

	// Create and start lifecycle sweeper
	sweepProcessor := sweeper.NewProcessor(db, engine, cfg.SweepInterval)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()

	go sweepProcessor.Start(sweeperCtx)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, cfg.JWTSecret, authHandlers, auctionHandlers, biddingHandlers, agreementHandlers, ledgerHandlers, currencyHandlers, watchlistHandlers)

	// Create server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Stop the sweeper before the HTTP server so no new expiries start
	sweeperCancel()

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers
// It groups routes by functionality and applies appropriate middleware:
// - Auth routes: Public endpoints for authentication
// - Auction browse routes: Public
// - Bidding routes: Protected by JWT authentication
// - Internal routes: Protected by internal authentication
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	auctionHandlers *auction.GinHandlers,
	biddingHandlers *bidding.GinHandlers,
	agreementHandlers *agreement.GinHandlers,
	ledgerHandlers *ledger.GinHandlers,
	currencyHandlers *currency.GinHandlers,
	watchlistHandlers *watchlist.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Public browse routes
		v1.GET("/auctions", auctionHandlers.ListActiveHandler())
		v1.GET("/bids/auction/:auction_id", biddingHandlers.AuctionBidsHandler())
		v1.GET("/bids/auction/:auction_id/highest", biddingHandlers.HighestBidHandler())
		v1.GET("/currency/rates", currencyHandlers.RatesHandler())
		v1.GET("/currency/convert", currencyHandlers.ConvertHandler())

		// Auction routes
		auctions := v1.Group("/auctions")
		auctions.Use(middleware.JWTAuth(jwtSecret))
		{
			auctions.POST("", auctionHandlers.CreateAuctionHandler())
			auctions.GET("/:auction_id", auctionHandlers.GetAuctionHandler())
			auctions.GET("/user/my-auctions", auctionHandlers.MyAuctionsHandler())
			auctions.PATCH("/:auction_id/publish", auctionHandlers.PublishAuctionHandler())
			auctions.PATCH("/:auction_id/cancel", auctionHandlers.CancelAuctionHandler())
			auctions.POST("/:auction_id/buy-now", biddingHandlers.BuyNowHandler())
		}

		// Bidding routes
		bids := v1.Group("/bids")
		bids.Use(middleware.JWTAuth(jwtSecret))
		{
			bids.POST("", biddingHandlers.PlaceBidHandler())
			bids.GET("/can-bid/:auction_id", biddingHandlers.CanBidHandler())
			bids.GET("/user/my-bids", biddingHandlers.MyBidsHandler())
		}

		// Proxy (max) bid routes
		maxBids := v1.Group("/max-bids")
		maxBids.Use(middleware.JWTAuth(jwtSecret))
		{
			maxBids.POST("", biddingHandlers.SetProxyBidHandler())
			maxBids.GET("/auction/:auction_id", biddingHandlers.MyProxyBidHandler())
			maxBids.GET("/user/active", biddingHandlers.MyActiveProxiesHandler())
			maxBids.DELETE("/auction/:auction_id", biddingHandlers.CancelProxyBidHandler())
		}

		// Seller agreement routes
		agreements := v1.Group("/agreements")
		agreements.Use(middleware.JWTAuth(jwtSecret))
		{
			agreements.POST("/:agreement_id/accept", agreementHandlers.AcceptAgreementHandler())
			agreements.GET("/auction/:auction_id", agreementHandlers.GetAgreementHandler())
		}

		// Watchlist routes
		watches := v1.Group("/watchlist")
		watches.Use(middleware.JWTAuth(jwtSecret))
		{
			watches.POST("", watchlistHandlers.AddHandler())
			watches.GET("", watchlistHandlers.ListHandler())
			watches.GET("/stats", watchlistHandlers.StatsHandler())
			watches.GET("/check/:auction_id", watchlistHandlers.CheckHandler())
			watches.PUT("/:auction_id/notifications", watchlistHandlers.UpdateNotificationsHandler())
			watches.DELETE("/:auction_id", watchlistHandlers.RemoveHandler())
		}

		// Ledger routes
		balances := v1.Group("/balance")
		balances.Use(middleware.JWTAuth(jwtSecret))
		{
			balances.GET("", ledgerHandlers.GetBalanceHandler())
		}

		// Internal routes (should be protected by internal network)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalAuth(jwtSecret))
		{
			internal.POST("/expire/:auction_id", biddingHandlers.ExpireHandler())
			internal.POST("/credit", ledgerHandlers.CreditHandler())
			internal.POST("/agreements/:auction_id", agreementHandlers.CreateAgreementHandler())
			internal.GET("/max-bids/:auction_id", biddingHandlers.AuctionProxiesHandler())
		}
	}
}
