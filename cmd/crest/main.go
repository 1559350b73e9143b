package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/crestdex/crest/internal/config"
	"github.com/crestdex/crest/internal/farm"
	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/pool"
	"github.com/crestdex/crest/internal/state"
	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
	"github.com/crestdex/crest/internal/web"
)

// main is the entry point for the crest exchange core.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Crest exchange core starting...")

	// --- 2. Persistence (optional: without a database the journal is in-memory) ---
	var (
		recorder    types.Recorder
		eventSource web.EventSource
	)
	if os.Getenv("DB_HOST") != "" {
		dbCfg := state.DBConfig{
			Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
			User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
			DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		store, err := state.NewEventStore()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create event store")
		}
		recorder = store
		eventSource = state.GetRecentEvents
	} else {
		log.Warn().Msg("DB_HOST not set; event journal is in-memory only")
		memory := types.NewMemoryRecorder(1000)
		recorder = memory
		eventSource = func(limit int) ([]types.Event, error) {
			events := memory.Events()
			if limit > 0 && len(events) > limit {
				events = events[len(events)-limit:]
			}
			return events, nil
		}
	}

	// --- 3. Asset Ledgers & Genesis ---
	ledgerA := mustLedger(config.DenomA)
	ledgerB := mustLedger(config.DenomB)
	ledgerReward := mustLedger(config.RewardDenom)

	mustMint(ledgerA, config.Treasury, config.GenesisSupplyA)
	mustMint(ledgerB, config.Treasury, config.GenesisSupplyB)
	// The reward budget is custodied by the farm so claims can be paid.
	mustMint(ledgerReward, config.FarmCustody, config.GenesisSupplyReward)

	// --- 4. Engines ---
	assetA, err := ledgerA.Custody(config.PoolCustody)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind pool custody for asset A")
	}
	assetB, err := ledgerB.Custody(config.PoolCustody)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind pool custody for asset B")
	}

	poolEngine, err := pool.NewEngine(pool.Config{
		AssetA:   assetA,
		AssetB:   assetB,
		Recorder: recorder,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create pool engine")
	}

	stakeAsset, err := pool.NewShareTransferor(poolEngine, config.FarmCustody)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind farm custody for pool shares")
	}
	rewardAsset, err := ledgerReward.Custody(config.FarmCustody)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind farm custody for rewards")
	}

	farmEngine, err := farm.NewEngine(farm.Config{
		StakeAsset:  stakeAsset,
		RewardAsset: rewardAsset,
		Controller:  config.Controller,
		RewardRate:  config.InitialRewardRate,
		Clock:       farm.SystemClock{},
		Recorder:    recorder,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create farm engine")
	}

	// --- 5. Web Server ---
	webServer := web.NewWebServer(config.WebPort, poolEngine, farmEngine, eventSource)
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed")
		}
	}()

	// --- 6. Snapshot Loop ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if state.DB != nil {
		go runSnapshotLoop(ctx, poolEngine, farmEngine, config.SnapshotInterval)
	}

	log.Info().
		Str("webPort", config.WebPort).
		Str("denomA", config.DenomA.String()).
		Str("denomB", config.DenomB.String()).
		Str("rewardDenom", config.RewardDenom.String()).
		Msg("Crest exchange core is running")

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, exiting")
}

// runSnapshotLoop periodically persists a consistent view of both engines.
func runSnapshotLoop(ctx context.Context, poolEngine *pool.Engine, farmEngine *farm.Engine, interval time.Duration) {
	snapLogger := logger.GetForComponent("snapshot_loop")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			snapLogger.Info().Msg("Snapshot loop stopped due to context cancellation")
			return
		case <-ticker.C:
			poolSummary, err := poolEngine.Summary()
			if err != nil {
				snapLogger.Warn().Err(err).Msg("Skipping snapshot: pool summary unavailable")
				continue
			}
			farmSummary, err := farmEngine.Summary()
			if err != nil {
				snapLogger.Warn().Err(err).Msg("Skipping snapshot: farm summary unavailable")
				continue
			}
			snapshotID, err := state.SaveEngineSnapshot(poolSummary, farmSummary)
			if err != nil {
				snapLogger.Error().Err(err).Msg("Failed to persist engine snapshot")
				continue
			}
			snapLogger.Debug().Int64("snapshotID", snapshotID).Msg("Engine snapshot persisted")
		}
	}
}

func mustLedger(denom types.Denom) *token.Ledger {
	ledger, err := token.NewLedger(denom)
	if err != nil {
		log.Fatal().Err(err).Str("denom", denom.String()).Msg("Failed to create ledger")
	}
	return ledger
}

// mustMint seeds a genesis balance. A zero supply is allowed and mints nothing.
func mustMint(ledger *token.Ledger, account types.AccountID, amount sdkmath.Int) {
	if amount.IsZero() {
		return
	}
	if err := ledger.Mint(account, amount); err != nil {
		log.Fatal().Err(err).
			Str("denom", ledger.Denom().String()).
			Str("account", account.String()).
			Msg("Failed to mint genesis supply")
	}
}

func mustAtoi(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
