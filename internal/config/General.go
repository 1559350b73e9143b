package config

import (
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/crestdex/crest/internal/types"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// DenomA and DenomB are the pool's traded asset pair.
	DenomA types.Denom
	DenomB types.Denom
	// RewardDenom is the asset the farm pays out.
	RewardDenom types.Denom

	// PoolCustody holds the pool's reserves on the asset ledgers.
	PoolCustody types.AccountID
	// FarmCustody holds staked shares and the reward budget.
	FarmCustody types.AccountID
	// Controller is the only identity allowed to change the reward rate.
	Controller types.AccountID

	// Treasury receives the genesis supply of every ledger.
	Treasury types.AccountID
	// GenesisSupplyA/B/Reward seed the respective ledgers at startup.
	GenesisSupplyA      sdkmath.Int
	GenesisSupplyB      sdkmath.Int
	GenesisSupplyReward sdkmath.Int

	// InitialRewardRate is the farm's emission rate at startup, units/second.
	InitialRewardRate sdkmath.Int

	// WebPort is the HTTP listen port.
	WebPort string
	// SnapshotInterval is how often engine snapshots are persisted.
	SnapshotInterval time.Duration
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// All environment variables without a stated default are required.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	DenomA, err = getEnvAsDenom("CREST_DENOM_A")
	if err != nil {
		return err
	}
	DenomB, err = getEnvAsDenom("CREST_DENOM_B")
	if err != nil {
		return err
	}
	RewardDenom, err = getEnvAsDenom("CREST_REWARD_DENOM")
	if err != nil {
		return err
	}

	PoolCustody, err = getEnvAsAccount("CREST_POOL_CUSTODY")
	if err != nil {
		return err
	}
	FarmCustody, err = getEnvAsAccount("CREST_FARM_CUSTODY")
	if err != nil {
		return err
	}
	Controller, err = getEnvAsAccount("CREST_CONTROLLER")
	if err != nil {
		return err
	}
	Treasury, err = getEnvAsAccount("CREST_TREASURY")
	if err != nil {
		return err
	}

	GenesisSupplyA, err = getEnvAsInt("CREST_GENESIS_SUPPLY_A")
	if err != nil {
		return err
	}
	GenesisSupplyB, err = getEnvAsInt("CREST_GENESIS_SUPPLY_B")
	if err != nil {
		return err
	}
	GenesisSupplyReward, err = getEnvAsInt("CREST_GENESIS_SUPPLY_REWARD")
	if err != nil {
		return err
	}
	InitialRewardRate, err = getEnvAsInt("CREST_INITIAL_REWARD_RATE")
	if err != nil {
		return err
	}

	WebPort = getEnvOrDefault("WEB_PORT", "8080")

	snapshotSeconds, err := getEnvAsInt64OrDefault("CREST_SNAPSHOT_INTERVAL_SECONDS", 300)
	if err != nil {
		return err
	}
	SnapshotInterval = time.Duration(snapshotSeconds) * time.Second

	log.Debug().
		Str("DenomA", DenomA.String()).
		Str("DenomB", DenomB.String()).
		Str("RewardDenom", RewardDenom.String()).
		Str("Controller", Controller.String()).
		Msg("Configuration loaded successfully.")

	return nil
}
