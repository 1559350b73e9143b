package pool

import (
	sdkmath "cosmossdk.io/math"

	"github.com/crestdex/crest/internal/types"
)

// Reserves returns the current custodied balances of both assets.
func (e *Engine) Reserves() (sdkmath.Int, sdkmath.Int, error) {
	if err := e.enter("Reserves"); err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.reserveA, e.reserveB, nil
}

// TotalShares returns the outstanding share supply.
func (e *Engine) TotalShares() (sdkmath.Int, error) {
	if err := e.enter("TotalShares"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.totalShares, nil
}

// Summary returns a consistent snapshot of the pool ledger.
func (e *Engine) Summary() (types.PoolSummary, error) {
	if err := e.enter("Summary"); err != nil {
		return types.PoolSummary{}, err
	}
	defer e.mu.Unlock()
	return types.PoolSummary{
		DenomA:      e.denomA,
		DenomB:      e.denomB,
		ReserveA:    e.reserveA,
		ReserveB:    e.reserveB,
		TotalShares: e.totalShares,
		FeeBps:      FeeBps,
	}, nil
}
