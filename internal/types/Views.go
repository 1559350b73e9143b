/*

Read-only views of engine state, consumed by the web layer and persisted as
snapshots by the state layer.

*/

package types

import (
	"time"

	"cosmossdk.io/math"
)

// PoolSummary is a consistent snapshot of the pool engine's ledger.
type PoolSummary struct {
	DenomA      Denom    `json:"denom_a"`
	DenomB      Denom    `json:"denom_b"`
	ReserveA    math.Int `json:"reserve_a"`
	ReserveB    math.Int `json:"reserve_b"`
	TotalShares math.Int `json:"total_shares"`
	FeeBps      int64    `json:"fee_bps"`
}

// FarmSummary is a consistent snapshot of the reward engine's ledger. The
// accumulator is reported as settled at SettledAt; it keeps growing between
// snapshots whenever stake is outstanding.
type FarmSummary struct {
	StakeDenom  Denom     `json:"stake_denom"`
	RewardDenom Denom     `json:"reward_denom"`
	TotalStaked math.Int  `json:"total_staked"`
	RewardRate  math.Int  `json:"reward_rate"`
	Accumulator math.Int  `json:"reward_per_token_accumulated"`
	SettledAt   time.Time `json:"settled_at"`
}
