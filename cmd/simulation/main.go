package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ksred/auction-api/internal/agreement"
	"github.com/ksred/auction-api/internal/auction"
	"github.com/ksred/auction-api/internal/auth"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/currency"
	"github.com/ksred/auction-api/internal/database"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/ksred/auction-api/internal/watchlist"
	"github.com/ksred/auction-api/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	numAuctions     = 8
	numBidders      = 5
	bidsPerBidder   = 20
	startingBalance = 5000.00
	serverAddress   = "http://localhost:8080"
	simJWTSecret    = "auction-secret-key"
)

var auctionTitles = []string{
	"Vintage Rolex Submariner",
	"Signed First Edition Novel",
	"Mid-Century Teak Sideboard",
	"Gibson Les Paul 1987",
	"Abstract Oil on Canvas",
	"Antique Brass Telescope",
	"Limited Run Art Print",
	"Mechanical Chess Clock",
}

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	// Configure pretty logging
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	mu         sync.Mutex
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// addFailure records a failed call against the route
func (rs *routeStats) addFailure() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.failures++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	// Sort durations for percentile calculations
	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	// Calculate mean
	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))

	// Calculate median
	median = rs.durations[len(rs.durations)/2]

	// Calculate percentiles
	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the auction API on behalf
// of a single simulated user. Route statistics are shared across all clients.
type simulationClient struct {
	baseURL   string
	userID    string
	authToken string
	client    *http.Client
	stats     map[string]*routeStats
}

// newStatsMap prepares the shared performance tracking map
func newStatsMap() map[string]*routeStats {
	return map[string]*routeStats{
		"auth":    {name: "Authentication"},
		"create":  {name: "Create Auction"},
		"get":     {name: "Get Auction"},
		"bid":     {name: "Place Bid"},
		"max-bid": {name: "Set Max Bid"},
		"buy-now": {name: "Buy It Now"},
		"watch":   {name: "Watch Auction"},
		"credit":  {name: "Credit Balance"},
		"expire":  {name: "Expire Auction"},
	}
}

// newSimulationClient creates a client for one simulated user and
// authenticates it against the API
func newSimulationClient(userID string, stats map[string]*routeStats) (*simulationClient, error) {
	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	sc := &simulationClient{
		baseURL: serverAddress,
		userID:  userID,
		client:  client,
		stats:   stats,
	}

	// Get auth token
	token, err := sc.authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate %s: %w", userID, err)
	}
	sc.authToken = token

	return sc, nil
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate() (string, error) {
	start := time.Now()
	defer func() {
		sc.stats["auth"].addDuration(time.Since(start))
	}()

	credentials := map[string]string{
		"api_key":    sc.userID,
		"api_secret": auth.TestAPISecret,
	}

	body, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	resp, err := sc.client.Post(
		fmt.Sprintf("%s/api/v1/auth/token", sc.baseURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		sc.stats["auth"].addFailure()
		return "", fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"jwt_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Data.Token, nil
}

// doJSON sends an authenticated request with an optional JSON body and
// decodes the standard result envelope into out
func (sc *simulationClient) doJSON(method, path string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(body)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sc.authToken))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug().Str("path", path).Str("response", string(respBody)).Msg("API response")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w, body: %s", err, string(respBody))
	}

	return nil
}

// creditBalance tops up a user's ledger balance through the internal API
func (sc *simulationClient) creditBalance(userID string, amount float64) error {
	start := time.Now()
	defer func() {
		sc.stats["credit"].addDuration(time.Since(start))
	}()

	payload := map[string]interface{}{
		"user_id":  userID,
		"amount":   amount,
		"currency": currency.NGN,
	}

	if err := sc.doJSON("POST", "/api/v1/internal/credit", payload, nil); err != nil {
		sc.stats["credit"].addFailure()
		return err
	}
	return nil
}

// createAuction lists a new auction and returns it
func (sc *simulationClient) createAuction(req *auction.CreateRequest) (*types.Auction, error) {
	start := time.Now()
	defer func() {
		sc.stats["create"].addDuration(time.Since(start))
	}()

	var created types.Auction
	if err := sc.doJSON("POST", "/api/v1/auctions", req, &created); err != nil {
		sc.stats["create"].addFailure()
		return nil, err
	}

	if created.AuctionID == "" {
		sc.stats["create"].addFailure()
		return nil, fmt.Errorf("no auction ID in response")
	}

	return &created, nil
}

// getAuction retrieves the current state of an auction
func (sc *simulationClient) getAuction(auctionID string) (*auction.DetailResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["get"].addDuration(time.Since(start))
	}()

	var detail auction.DetailResponse
	if err := sc.doJSON("GET", fmt.Sprintf("/api/v1/auctions/%s", auctionID), nil, &detail); err != nil {
		sc.stats["get"].addFailure()
		return nil, err
	}
	return &detail, nil
}

// placeBid submits a manual bid on an auction
func (sc *simulationClient) placeBid(auctionID string, amount float64) (*types.BidResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["bid"].addDuration(time.Since(start))
	}()

	payload := map[string]interface{}{
		"auction_id": auctionID,
		"amount":     amount,
	}

	var bidResp types.BidResponse
	if err := sc.doJSON("POST", "/api/v1/bids", payload, &bidResp); err != nil {
		sc.stats["bid"].addFailure()
		return nil, err
	}
	return &bidResp, nil
}

// setMaxBid registers a proxy bid ceiling on an auction
func (sc *simulationClient) setMaxBid(auctionID string, maxAmount float64) (*types.ProxyBidResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["max-bid"].addDuration(time.Since(start))
	}()

	payload := map[string]interface{}{
		"auction_id": auctionID,
		"max_amount": maxAmount,
	}

	var proxyResp types.ProxyBidResponse
	if err := sc.doJSON("POST", "/api/v1/max-bids", payload, &proxyResp); err != nil {
		sc.stats["max-bid"].addFailure()
		return nil, err
	}
	return &proxyResp, nil
}

// watchAuction puts an auction on the user's watchlist
func (sc *simulationClient) watchAuction(auctionID string) error {
	start := time.Now()
	defer func() {
		sc.stats["watch"].addDuration(time.Since(start))
	}()

	payload := map[string]interface{}{
		"auction_id": auctionID,
	}

	var item watchlist.WatchItem
	if err := sc.doJSON("POST", "/api/v1/watchlist", payload, &item); err != nil {
		sc.stats["watch"].addFailure()
		return err
	}
	return nil
}

// buyNow attempts an immediate purchase at the buy-it-now price
func (sc *simulationClient) buyNow(auctionID string) (*types.SaleResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["buy-now"].addDuration(time.Since(start))
	}()

	var sale types.SaleResponse
	if err := sc.doJSON("POST", fmt.Sprintf("/api/v1/auctions/%s/buy-now", auctionID), nil, &sale); err != nil {
		sc.stats["buy-now"].addFailure()
		return nil, err
	}
	return &sale, nil
}

// expireAuction forces lifecycle expiry through the internal API
func (sc *simulationClient) expireAuction(auctionID string) (*types.ExpiryResponse, error) {
	start := time.Now()
	defer func() {
		sc.stats["expire"].addDuration(time.Since(start))
	}()

	var expiry types.ExpiryResponse
	if err := sc.doJSON("POST", fmt.Sprintf("/api/v1/internal/expire/%s", auctionID), nil, &expiry); err != nil {
		sc.stats["expire"].addFailure()
		return nil, err
	}
	return &expiry, nil
}

// printPerformanceStats outputs formatted performance statistics for all API endpoints
func printPerformanceStats(stats map[string]*routeStats) {
	fmt.Println("\n📊 API Performance Statistics")
	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("%-20s %10s %10s %10s %10s %10s %10s %10s %10s\n",
		"Endpoint", "Calls", "Errors", "Min", "Max", "Mean", "Median", "P95", "P99")
	fmt.Println(strings.Repeat("-", 100))

	for _, rs := range stats {
		min, max, mean, median, p95, p99 := rs.calculate()
		fmt.Printf("%-20s %10d %10d %10s %10s %10s %10s %10s %10s\n",
			rs.name,
			rs.totalCalls,
			rs.failures,
			min.Round(time.Millisecond),
			max.Round(time.Millisecond),
			mean.Round(time.Millisecond),
			median.Round(time.Millisecond),
			p95.Round(time.Millisecond),
			p99.Round(time.Millisecond))
	}
	fmt.Println(strings.Repeat("-", 100))
}

// main runs the auction simulation
// It starts a local API server, lists a batch of auctions, and lets a pool
// of concurrent bidders fight over them with manual bids, max bids, and the
// occasional buy-it-now before forcing expiry and printing a summary
func main() {
	// Start the server in a goroutine
	go func() {
		if err := startServer(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for server to start
	time.Sleep(2 * time.Second)

	stats := newStatsMap()

	// The seller lists the auctions and drives the internal endpoints
	seller, err := newSimulationClient("SELLER_1", stats)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize seller client")
	}

	// Initialize one client per bidder and fund its ledger account
	bidders := make([]*simulationClient, 0, numBidders)
	for i := 0; i < numBidders; i++ {
		bidder, err := newSimulationClient(fmt.Sprintf("BIDDER_%d", i+1), stats)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize bidder client")
		}
		if err := seller.creditBalance(bidder.userID, startingBalance); err != nil {
			log.Fatal().Err(err).Str("user_id", bidder.userID).Msg("Failed to credit balance")
		}
		bidders = append(bidders, bidder)
	}

	// List the auctions. Every third auction gets a buy-it-now price and
	// every fourth a reserve, so the endings vary.
	var auctionIDs []string
	closeTime := time.Now().Add(15 * time.Second)
	for i := 0; i < numAuctions; i++ {
		req := &auction.CreateRequest{
			Title:         auctionTitles[i%len(auctionTitles)],
			Description:   "Simulation lot",
			StartingPrice: float64(rand.Intn(20)+1) * 10,
			BidIncrement:  10,
			EndTime:       &closeTime,
		}
		if i%3 == 0 {
			buyItNow := req.StartingPrice * 8
			req.BuyItNowPrice = &buyItNow
		}
		if i%4 == 0 {
			reserve := req.StartingPrice * 3
			req.ReservePrice = &reserve
		}

		created, err := seller.createAuction(req)
		if err != nil {
			log.Error().Err(err).Str("title", req.Title).Msg("Failed to create auction")
			continue
		}
		auctionIDs = append(auctionIDs, created.AuctionID)
		log.Info().
			Str("auction_id", created.AuctionID).
			Str("title", created.Title).
			Float64("starting_price", created.StartingPrice).
			Msg("Auction listed")
	}

	if len(auctionIDs) == 0 {
		log.Fatal().Msg("No auctions created, aborting simulation")
	}

	log.Info().Int("auctions_created", len(auctionIDs)).Msg("All auctions listed")

	// Every bidder follows a couple of random lots
	for _, bidder := range bidders {
		for j := 0; j < 2; j++ {
			auctionID := auctionIDs[rand.Intn(len(auctionIDs))]
			if err := bidder.watchAuction(auctionID); err != nil {
				log.Debug().Err(err).Str("auction_id", auctionID).Msg("Failed to watch auction")
			}
		}
	}

	startTime := time.Now()

	// Bidding counters, updated by the workers
	var counterMu sync.Mutex
	counters := struct {
		ManualBids  int
		MaxBids     int
		AutoBids    int
		BuyNowSales int
		Rejected    int
	}{}

	// Start bidder goroutines
	var wg sync.WaitGroup
	for _, bidder := range bidders {
		wg.Add(1)
		go func(bc *simulationClient) {
			defer wg.Done()
			for i := 0; i < bidsPerBidder; i++ {
				auctionID := auctionIDs[rand.Intn(len(auctionIDs))]

				detail, err := bc.getAuction(auctionID)
				if err != nil {
					log.Debug().Err(err).Str("auction_id", auctionID).Msg("Failed to fetch auction")
					continue
				}
				a := detail.Auction
				if a.Status != types.StatusActive {
					continue
				}

				switch action := rand.Intn(10); {
				case action < 6:
					// Manual bid a few increments above the current price
					amount := a.CurrentPrice + a.BidIncrement*float64(rand.Intn(3)+1)
					resp, err := bc.placeBid(auctionID, amount)
					if err != nil {
						// Bids race each other, rejections are expected
						counterMu.Lock()
						counters.Rejected++
						counterMu.Unlock()
						log.Debug().Err(err).Str("auction_id", auctionID).Msg("Bid rejected")
						continue
					}
					counterMu.Lock()
					counters.ManualBids++
					counters.AutoBids += len(resp.AutoBids)
					counterMu.Unlock()
					log.Info().
						Str("bidder", bc.userID).
						Str("auction_id", auctionID).
						Float64("amount", amount).
						Float64("new_price", resp.NewPrice).
						Str("new_winner", resp.NewWinner).
						Int("auto_bids", len(resp.AutoBids)).
						Msg("Bid placed")

				case action < 9:
					// Max bid with headroom above the current price
					maxAmount := a.CurrentPrice + a.BidIncrement*float64(rand.Intn(10)+2)
					resp, err := bc.setMaxBid(auctionID, maxAmount)
					if err != nil {
						counterMu.Lock()
						counters.Rejected++
						counterMu.Unlock()
						log.Debug().Err(err).Str("auction_id", auctionID).Msg("Max bid rejected")
						continue
					}
					counterMu.Lock()
					counters.MaxBids++
					counterMu.Unlock()
					log.Info().
						Str("bidder", bc.userID).
						Str("auction_id", auctionID).
						Float64("max_amount", maxAmount).
						Float64("new_price", resp.NewPrice).
						Msg("Max bid set")

				default:
					if a.BuyItNowPrice == nil {
						continue
					}
					sale, err := bc.buyNow(auctionID)
					if err != nil {
						counterMu.Lock()
						counters.Rejected++
						counterMu.Unlock()
						log.Debug().Err(err).Str("auction_id", auctionID).Msg("Buy-it-now rejected")
						continue
					}
					counterMu.Lock()
					counters.BuyNowSales++
					counterMu.Unlock()
					log.Info().
						Str("bidder", bc.userID).
						Str("auction_id", auctionID).
						Float64("purchase_price", sale.PurchasePrice).
						Msg("Buy-it-now purchase")
				}

				// Random sleep between actions
				time.Sleep(time.Duration(rand.Intn(200)) * time.Millisecond)
			}
		}(bidder)
	}

	wg.Wait()

	// Let the hammer fall before settling the report
	if remaining := time.Until(closeTime) + time.Second; remaining > 0 {
		log.Info().Dur("remaining", remaining).Msg("Waiting for auctions to close")
		time.Sleep(remaining)
	}

	// Force expiry on everything still running and collect outcomes
	outcomes := struct {
		Sold       int
		BuyItNow   int
		NoSale     int
		TotalValue float64
		Winners    map[string]int
	}{Winners: make(map[string]int)}

	for _, auctionID := range auctionIDs {
		detail, err := seller.getAuction(auctionID)
		if err != nil {
			log.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to fetch auction for expiry")
			continue
		}

		if detail.Auction.Status == types.StatusActive {
			expiry, err := seller.expireAuction(auctionID)
			if err != nil {
				log.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to expire auction")
				continue
			}
			// Not yet due is a valid outcome, settle it anyway for the report
			if !expiry.Expired {
				log.Info().Str("auction_id", auctionID).Msg("Auction not yet due, left running")
			}
			detail, err = seller.getAuction(auctionID)
			if err != nil {
				log.Error().Err(err).Str("auction_id", auctionID).Msg("Failed to refetch auction")
				continue
			}
		}

		a := detail.Auction
		switch {
		case a.SoldViaBuyItNow:
			outcomes.BuyItNow++
			outcomes.TotalValue += a.CurrentPrice
			outcomes.Winners[derefStr(a.WinnerID)]++
		case a.Status == types.StatusEnded && a.WinnerID != nil && a.ReserveMet:
			outcomes.Sold++
			outcomes.TotalValue += a.CurrentPrice
			outcomes.Winners[derefStr(a.WinnerID)]++
		default:
			outcomes.NoSale++
		}

		log.Info().
			Str("auction_id", a.AuctionID).
			Str("status", a.Status).
			Float64("final_price", a.CurrentPrice).
			Bool("reserve_met", a.ReserveMet).
			Str("winner", derefStr(a.WinnerID)).
			Msg("Auction settled")
	}

	// Print summary
	duration := time.Since(startTime)
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("🔨 AUCTION SIMULATION SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Printf(`
📊 Bidding Statistics
--------------------
Auctions:        %d
Manual Bids:     %d
Max Bids Set:    %d
Auto Bids:       %d
Rejected:        %d
Buy-It-Now:      %d
Sold at Hammer:  %d
No Sale:         %d
Total Value:     ₦%.2f
Duration:        %v

🏆 Winner Distribution
--------------------
`, len(auctionIDs), counters.ManualBids, counters.MaxBids, counters.AutoBids,
		counters.Rejected, outcomes.BuyItNow, outcomes.Sold, outcomes.NoSale,
		outcomes.TotalValue, duration.Round(time.Millisecond))

	// Print winner distribution with simple ASCII bar chart
	maxWins := 0
	for _, count := range outcomes.Winners {
		if count > maxWins {
			maxWins = count
		}
	}
	for winner, count := range outcomes.Winners {
		barLength := int(float64(count) / float64(maxWins) * 20)
		bar := strings.Repeat("█", barLength)
		fmt.Printf("%-10s: %s (%d)\n", winner, bar, count)
	}

	fmt.Println("\n" + strings.Repeat("=", 80))

	soldTotal := outcomes.Sold + outcomes.BuyItNow
	saleRate := float64(soldTotal) / float64(len(auctionIDs)) * 100
	log.Info().
		Float64("sale_rate", saleRate).
		Int("auctions", len(auctionIDs)).
		Int("sold", soldTotal).
		Float64("total_value", outcomes.TotalValue).
		Dur("duration", duration).
		Msg("Simulation completed")

	printPerformanceStats(stats)
}

func derefStr(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// startServer initializes and starts the auction API server
// Sets up all required services, handlers and routes
func startServer() error {
	// Initialize database
	db, err := database.NewDatabase("simulation.db")
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	authService := auth.NewService(simJWTSecret)
	ledgerService := ledger.NewService(db)
	actors := bidding.NewActorRegistry()
	engine := bidding.NewEngine(db, ledgerService, actors)
	auctionService := auction.NewService(db, actors)
	agreementService := agreement.NewService(db, actors)

	// Register credentials for the seller and every simulated bidder
	authService.RegisterAPICredentials("SELLER_1", auth.TestAPISecret)
	for i := 0; i < numBidders; i++ {
		authService.RegisterAPICredentials(fmt.Sprintf("BIDDER_%d", i+1), auth.TestAPISecret)
	}

	// Initialize router
	router := gin.Default()
	authHandlers := auth.NewGinHandlers(authService)
	ledgerHandlers := ledger.NewGinHandlers(ledgerService)
	biddingHandlers := bidding.NewGinHandlers(engine)
	auctionHandlers := auction.NewGinHandlers(auctionService)
	agreementHandlers := agreement.NewGinHandlers(agreementService)
	currencyHandlers := currency.NewGinHandlers()
	watchlistHandlers := watchlist.NewGinHandlers(watchlist.NewService(db))

	// Setup routes
	setupRoutes(router, authHandlers, auctionHandlers, biddingHandlers, agreementHandlers, ledgerHandlers, currencyHandlers, watchlistHandlers)

	// Start the server
	return router.Run(":8080")
}

// setupRoutes configures all API endpoints and their handlers
// Groups routes by functionality and applies appropriate middleware
func setupRoutes(
	router *gin.Engine,
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
		v1.GET("/currency/rates", currencyHandlers.RatesHandler())
		v1.GET("/currency/convert", currencyHandlers.ConvertHandler())

		// Auction routes
		auctions := v1.Group("/auctions")
		auctions.Use(middleware.JWTAuth(simJWTSecret))
		{
			auctions.POST("", auctionHandlers.CreateAuctionHandler())
			auctions.GET("/:auction_id", auctionHandlers.GetAuctionHandler())
			auctions.POST("/:auction_id/buy-now", biddingHandlers.BuyNowHandler())
		}

		// Bidding routes
		bids := v1.Group("/bids")
		bids.Use(middleware.JWTAuth(simJWTSecret))
		{
			bids.POST("", biddingHandlers.PlaceBidHandler())
			bids.GET("/can-bid/:auction_id", biddingHandlers.CanBidHandler())
		}

		// Proxy (max) bid routes
		maxBids := v1.Group("/max-bids")
		maxBids.Use(middleware.JWTAuth(simJWTSecret))
		{
			maxBids.POST("", biddingHandlers.SetProxyBidHandler())
			maxBids.DELETE("/auction/:auction_id", biddingHandlers.CancelProxyBidHandler())
		}

		// Watchlist routes
		watches := v1.Group("/watchlist")
		watches.Use(middleware.JWTAuth(simJWTSecret))
		{
			watches.POST("", watchlistHandlers.AddHandler())
			watches.GET("", watchlistHandlers.ListHandler())
			watches.DELETE("/:auction_id", watchlistHandlers.RemoveHandler())
		}

		// Seller agreement routes
		agreements := v1.Group("/agreements")
		agreements.Use(middleware.JWTAuth(simJWTSecret))
		{
			agreements.POST("/:agreement_id/accept", agreementHandlers.AcceptAgreementHandler())
			agreements.GET("/auction/:auction_id", agreementHandlers.GetAgreementHandler())
		}

		// Internal routes
		internal := v1.Group("/internal")
		internal.Use(middleware.JWTAuth(simJWTSecret))
		{
			internal.POST("/expire/:auction_id", biddingHandlers.ExpireHandler())
			internal.POST("/credit", ledgerHandlers.CreditHandler())
		}
	}
}
