package farm

import (
	sdkmath "cosmossdk.io/math"

	"github.com/crestdex/crest/internal/types"
)

// TotalStaked returns the sum of all staked balances.
func (e *Engine) TotalStaked() (sdkmath.Int, error) {
	if err := e.enter("TotalStaked"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.totalStaked, nil
}

// StakedOf returns the account's staked balance.
func (e *Engine) StakedOf(account types.AccountID) (sdkmath.Int, error) {
	if err := e.enter("StakedOf"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.stakedOf(account), nil
}

// RewardRate returns the current pool-wide emission rate.
func (e *Engine) RewardRate() (sdkmath.Int, error) {
	if err := e.enter("RewardRate"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.rewardRate, nil
}

// Summary returns a consistent snapshot of the farm ledger as last settled.
func (e *Engine) Summary() (types.FarmSummary, error) {
	if err := e.enter("Summary"); err != nil {
		return types.FarmSummary{}, err
	}
	defer e.mu.Unlock()
	return types.FarmSummary{
		StakeDenom:  e.stakeAsset.Denom(),
		RewardDenom: e.rewardAsset.Denom(),
		TotalStaked: e.totalStaked,
		RewardRate:  e.rewardRate,
		Accumulator: e.accumulator,
		SettledAt:   e.lastUpdate,
	}, nil
}
