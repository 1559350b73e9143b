package web

import (
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// PoolService is the slice of the pool engine the HTTP layer consumes.
type PoolService interface {
	AddLiquidity(account types.AccountID, amountA, amountB sdkmath.Int) (sdkmath.Int, error)
	RemoveLiquidity(account types.AccountID, shares sdkmath.Int) (sdkmath.Int, sdkmath.Int, error)
	Swap(account types.AccountID, denomIn types.Denom, amountIn sdkmath.Int) (sdkmath.Int, error)
	Quote(denomIn types.Denom, amountIn sdkmath.Int) (sdkmath.Int, error)
	SharesOf(account types.AccountID) (sdkmath.Int, error)
	Summary() (types.PoolSummary, error)
}

// FarmService is the slice of the farm engine the HTTP layer consumes.
type FarmService interface {
	Stake(account types.AccountID, amount sdkmath.Int) error
	Unstake(account types.AccountID, amount sdkmath.Int) error
	Claim(account types.AccountID) (sdkmath.Int, error)
	SetRewardRate(caller types.AccountID, newRate sdkmath.Int) error
	Earned(account types.AccountID) (sdkmath.Int, error)
	StakedOf(account types.AccountID) (sdkmath.Int, error)
	Summary() (types.FarmSummary, error)
}

// EventSource supplies recent engine events for the journal endpoint.
type EventSource func(limit int) ([]types.Event, error)

// WebServer exposes the engines over HTTP. Caller identity is an explicit
// request field, never inferred from the connection.
type WebServer struct {
	router *mux.Router
	port   string
	pool   PoolService
	farm   FarmService
	events EventSource
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, pool PoolService, farm FarmService, events EventSource) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router: mux.NewRouter(),
		port:   port,
		pool:   pool,
		farm:   farm,
		events: events,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")

	api.HandleFunc("/pool/summary", ws.handlePoolSummary).Methods("GET")
	api.HandleFunc("/pool/quote", ws.handlePoolQuote).Methods("GET")
	api.HandleFunc("/pool/shares/{account}", ws.handlePoolShares).Methods("GET")
	api.HandleFunc("/pool/liquidity", ws.handleAddLiquidity).Methods("POST")
	api.HandleFunc("/pool/liquidity", ws.handleRemoveLiquidity).Methods("DELETE")
	api.HandleFunc("/pool/swap", ws.handleSwap).Methods("POST")

	api.HandleFunc("/farm/summary", ws.handleFarmSummary).Methods("GET")
	api.HandleFunc("/farm/earned/{account}", ws.handleFarmEarned).Methods("GET")
	api.HandleFunc("/farm/staked/{account}", ws.handleFarmStaked).Methods("GET")
	api.HandleFunc("/farm/stake", ws.handleStake).Methods("POST")
	api.HandleFunc("/farm/unstake", ws.handleUnstake).Methods("POST")
	api.HandleFunc("/farm/claim", ws.handleClaim).Methods("POST")
	api.HandleFunc("/farm/reward-rate", ws.handleSetRewardRate).Methods("PUT")

	api.HandleFunc("/events", ws.handleEvents).Methods("GET")

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start blocks serving HTTP until the listener fails.
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// corsMiddleware allows browser clients from any origin; the API carries no
// connection-derived identity, so there is nothing for CORS to protect.
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware records every request with its duration at debug level.
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		webLogger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
