package config

import (
	"errors"
	"os"

	sdkmath "cosmossdk.io/math"

	"github.com/crestdex/crest/internal/types"
	"github.com/crestdex/crest/internal/utils"
)

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable with a fallback.
func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsDenom retrieves an environment variable as a non-empty denom.
func getEnvAsDenom(key string) (types.Denom, error) {
	value, err := getEnv(key)
	if err != nil {
		return "", err
	}
	d := types.Denom(value)
	if !d.IsValid() {
		return "", errors.New("environment variable " + key + " must be a non-empty denom")
	}
	return d, nil
}

// getEnvAsAccount retrieves an environment variable as a non-empty account identity.
func getEnvAsAccount(key string) (types.AccountID, error) {
	value, err := getEnv(key)
	if err != nil {
		return "", err
	}
	a := types.AccountID(value)
	if !a.IsValid() {
		return "", errors.New("environment variable " + key + " must be a non-empty account")
	}
	return a, nil
}

// getEnvAsInt retrieves an environment variable as a non-negative integer amount.
func getEnvAsInt(key string) (sdkmath.Int, error) {
	value, err := getEnv(key)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	amount, err := utils.ParseAmount(value)
	if err != nil {
		return sdkmath.ZeroInt(), errors.New("environment variable " + key + " must be a non-negative integer, got: " + value)
	}
	return amount, nil
}

// getEnvAsInt64OrDefault retrieves an environment variable as an int64 with a fallback.
func getEnvAsInt64OrDefault(key string, fallback int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	parsed, err := utils.ParseAmount(value)
	if err != nil || !parsed.IsInt64() {
		return 0, errors.New("environment variable " + key + " must be a valid int64, got: " + value)
	}
	return parsed.Int64(), nil
}
