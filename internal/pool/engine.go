/*

Constant-product liquidity pool. The engine owns two reserve balances and the
pool-share ledger; value enters and leaves only through the asset transfer
collaborators. Calls are sequential end to end: an overlapping entry can only
come from a transfer callback re-entering mid-operation, and is rejected
immediately rather than queued.

*/

package pool

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
	"github.com/crestdex/crest/internal/utils"
)

const (
	// FeeBps is the protocol swap fee in basis points. The fee is retained
	// in the input reserve, permanently growing the product for all
	// liquidity providers; there is no separate fee ledger.
	FeeBps int64 = 25

	bpsDenominator int64 = 10_000
)

// Engine is the pool state machine. All public operations are whole-call
// atomic; failed calls leave no state behind.
type Engine struct {
	mu sync.Mutex

	denomA, denomB types.Denom
	shareDenom     types.Denom
	assetA, assetB token.Transferor

	reserveA    sdkmath.Int
	reserveB    sdkmath.Int
	totalShares sdkmath.Int
	shares      map[types.AccountID]sdkmath.Int

	recorder types.Recorder
	log      zerolog.Logger
}

// Config holds the dependencies for creating a pool engine.
type Config struct {
	AssetA   token.Transferor
	AssetB   token.Transferor
	Recorder types.Recorder
}

// NewEngine creates an empty pool over the two configured assets.
func NewEngine(cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("pool configuration validation failed: %w", err)
	}

	denomA := cfg.AssetA.Denom()
	denomB := cfg.AssetB.Denom()
	e := &Engine{
		denomA:      denomA,
		denomB:      denomB,
		shareDenom:  types.Denom(fmt.Sprintf("lp/%s-%s", denomA, denomB)),
		assetA:      cfg.AssetA,
		assetB:      cfg.AssetB,
		reserveA:    sdkmath.ZeroInt(),
		reserveB:    sdkmath.ZeroInt(),
		totalShares: sdkmath.ZeroInt(),
		shares:      make(map[types.AccountID]sdkmath.Int),
		recorder:    cfg.Recorder,
		log:         logger.GetForComponent("pool_engine"),
	}

	e.log.Info().
		Str("denomA", denomA.String()).
		Str("denomB", denomB.String()).
		Int64("feeBps", FeeBps).
		Msg("Pool engine created")

	return e, nil
}

func validateConfig(cfg Config) error {
	if cfg.AssetA == nil || cfg.AssetB == nil {
		return fmt.Errorf("%w: both asset transferors are required", types.ErrInvalidInput)
	}
	if !cfg.AssetA.Denom().IsValid() || !cfg.AssetB.Denom().IsValid() {
		return fmt.Errorf("%w: asset denoms must be non-empty", types.ErrInvalidInput)
	}
	if cfg.AssetA.Denom() == cfg.AssetB.Denom() {
		return fmt.Errorf("%w: pool assets must be distinct, got %s twice",
			types.ErrInvalidInput, cfg.AssetA.Denom())
	}
	if cfg.Recorder == nil {
		return fmt.Errorf("%w: recorder is required", types.ErrInvalidInput)
	}
	return nil
}

// enter acquires the engine for one call. Calls never queue: an overlapping
// entry is a reentrant transfer callback and fails at the door.
func (e *Engine) enter(op string) error {
	if !e.mu.TryLock() {
		return fmt.Errorf("%w: %s", types.ErrReentrancy, op)
	}
	return nil
}

// ShareDenom returns the denom under which pool shares are issued.
func (e *Engine) ShareDenom() types.Denom { return e.shareDenom }

// DenomA returns the first configured asset.
func (e *Engine) DenomA() types.Denom { return e.denomA }

// DenomB returns the second configured asset.
func (e *Engine) DenomB() types.Denom { return e.denomB }

// AddLiquidity pulls both assets from the account and mints proportional
// pool shares. The first deposit seeds the share supply with the geometric
// mean of the two amounts; later deposits mint against the more constraining
// of the two reserve ratios, silently donating any off-ratio excess to the
// pool.
func (e *Engine) AddLiquidity(account types.AccountID, amountA, amountB sdkmath.Int) (sdkmath.Int, error) {
	if err := e.enter("AddLiquidity"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}
	if !isPositive(amountA) || !isPositive(amountB) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: deposit amounts must be positive, got %s/%s",
			types.ErrInvalidInput, amountA, amountB)
	}

	minted, err := e.sharesForDeposit(amountA, amountB)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if minted.IsZero() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: deposit of %s/%s mints no shares",
			types.ErrInsufficientLiquidityMinted, amountA, amountB)
	}

	if err := e.assetA.Pull(account, amountA); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := e.assetB.Pull(account, amountB); err != nil {
		// Undo the first pull so the failed call commits nothing.
		if refundErr := e.assetA.Push(account, amountA); refundErr != nil {
			e.log.Error().Err(refundErr).
				Str("account", account.String()).
				Str("amount", amountA.String()).
				Msg("Refund of first-leg pull failed after second-leg failure")
			return sdkmath.ZeroInt(), fmt.Errorf("%w; refund also failed: %w", err, refundErr)
		}
		return sdkmath.ZeroInt(), err
	}

	e.reserveA = e.reserveA.Add(amountA)
	e.reserveB = e.reserveB.Add(amountB)
	e.totalShares = e.totalShares.Add(minted)
	e.shares[account] = e.shareBalance(account).Add(minted)

	e.recorder.Record(types.NewLiquidityAddedEvent(account, amountA, amountB, minted))
	e.log.Info().
		Str("account", account.String()).
		Str("amountA", amountA.String()).
		Str("amountB", amountB.String()).
		Str("shares", minted.String()).
		Msg("Liquidity added")

	return minted, nil
}

func (e *Engine) sharesForDeposit(amountA, amountB sdkmath.Int) (sdkmath.Int, error) {
	if e.totalShares.IsZero() {
		minted, err := utils.IntSqrt(amountA.Mul(amountB))
		if err != nil {
			return sdkmath.ZeroInt(), fmt.Errorf("seeding share supply: %w", err)
		}
		return minted, nil
	}
	byA, err := utils.MulDiv(amountA, e.totalShares, e.reserveA)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("share ratio for %s: %w", e.denomA, err)
	}
	byB, err := utils.MulDiv(amountB, e.totalShares, e.reserveB)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("share ratio for %s: %w", e.denomB, err)
	}
	return sdkmath.MinInt(byA, byB), nil
}

// RemoveLiquidity burns the account's shares and pays out the proportional
// slice of both reserves. Dust redemptions that would round either payout to
// zero are rejected.
func (e *Engine) RemoveLiquidity(account types.AccountID, shares sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()
	if err := e.enter("RemoveLiquidity"); err != nil {
		return zero, zero, err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return zero, zero, fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}
	if !isPositive(shares) {
		return zero, zero, fmt.Errorf("%w: share amount must be positive, got %s",
			types.ErrInvalidInput, shares)
	}
	balance := e.shareBalance(account)
	if balance.LT(shares) {
		return zero, zero, fmt.Errorf("%w: %s holds %s shares, wants to burn %s",
			types.ErrInsufficientBalance, account, balance, shares)
	}

	amountA, err := utils.MulDiv(shares, e.reserveA, e.totalShares)
	if err != nil {
		return zero, zero, fmt.Errorf("redemption for %s: %w", e.denomA, err)
	}
	amountB, err := utils.MulDiv(shares, e.reserveB, e.totalShares)
	if err != nil {
		return zero, zero, fmt.Errorf("redemption for %s: %w", e.denomB, err)
	}
	if amountA.IsZero() || amountB.IsZero() {
		return zero, zero, fmt.Errorf("%w: %s shares redeem to %s/%s",
			types.ErrInsufficientOutput, shares, amountA, amountB)
	}

	// Debit first, pay second; the debit is restored if either push fails.
	e.shares[account] = balance.Sub(shares)
	e.totalShares = e.totalShares.Sub(shares)
	e.reserveA = e.reserveA.Sub(amountA)
	e.reserveB = e.reserveB.Sub(amountB)

	restore := func() {
		e.shares[account] = balance
		e.totalShares = e.totalShares.Add(shares)
		e.reserveA = e.reserveA.Add(amountA)
		e.reserveB = e.reserveB.Add(amountB)
	}

	if err := e.assetA.Push(account, amountA); err != nil {
		restore()
		return zero, zero, err
	}
	if err := e.assetB.Push(account, amountB); err != nil {
		if clawErr := e.assetA.Pull(account, amountA); clawErr != nil {
			e.log.Error().Err(clawErr).
				Str("account", account.String()).
				Str("amount", amountA.String()).
				Msg("Claw-back of first-leg push failed after second-leg failure")
			return zero, zero, fmt.Errorf("%w; claw-back also failed: %w", err, clawErr)
		}
		restore()
		return zero, zero, err
	}

	e.recorder.Record(types.NewLiquidityRemovedEvent(account, amountA, amountB, shares))
	e.log.Info().
		Str("account", account.String()).
		Str("amountA", amountA.String()).
		Str("amountB", amountB.String()).
		Str("shares", shares.String()).
		Msg("Liquidity removed")

	return amountA, amountB, nil
}

// Swap trades amountIn of denomIn for the other asset at the constant-product
// price. The full input amount (fee included) lands in the input reserve.
func (e *Engine) Swap(account types.AccountID, denomIn types.Denom, amountIn sdkmath.Int) (sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()
	if err := e.enter("Swap"); err != nil {
		return zero, err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return zero, fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}
	if !isPositive(amountIn) {
		return zero, fmt.Errorf("%w: swap amount must be positive, got %s",
			types.ErrInvalidInput, amountIn)
	}

	assetIn, assetOut, reserveIn, reserveOut, err := e.orient(denomIn)
	if err != nil {
		return zero, err
	}

	amountOut, err := amountOutGiven(amountIn, reserveIn, reserveOut)
	if err != nil {
		return zero, err
	}
	if amountOut.IsZero() {
		return zero, fmt.Errorf("%w: %s %s buys nothing", types.ErrInsufficientOutput, amountIn, denomIn)
	}

	if err := assetIn.Pull(account, amountIn); err != nil {
		return zero, err
	}

	e.creditReserve(denomIn, amountIn)
	e.debitReserve(assetOut.Denom(), amountOut)

	if err := assetOut.Push(account, amountOut); err != nil {
		e.debitReserve(denomIn, amountIn)
		e.creditReserve(assetOut.Denom(), amountOut)
		if refundErr := assetIn.Push(account, amountIn); refundErr != nil {
			e.log.Error().Err(refundErr).
				Str("account", account.String()).
				Str("amount", amountIn.String()).
				Msg("Refund of swap input failed after output push failure")
			return zero, fmt.Errorf("%w; refund also failed: %w", err, refundErr)
		}
		return zero, err
	}

	e.recorder.Record(types.NewSwapEvent(account, denomIn, amountIn, amountOut))
	e.log.Info().
		Str("account", account.String()).
		Str("denomIn", denomIn.String()).
		Str("amountIn", amountIn.String()).
		Str("amountOut", amountOut.String()).
		Msg("Swap executed")

	return amountOut, nil
}

// Quote prices a swap against the current reserves without mutating any
// state. It shares the pricing path with Swap, so the two always agree.
func (e *Engine) Quote(denomIn types.Denom, amountIn sdkmath.Int) (sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()
	if err := e.enter("Quote"); err != nil {
		return zero, err
	}
	defer e.mu.Unlock()

	if !isPositive(amountIn) {
		return zero, fmt.Errorf("%w: quote amount must be positive, got %s",
			types.ErrInvalidInput, amountIn)
	}
	_, _, reserveIn, reserveOut, err := e.orient(denomIn)
	if err != nil {
		return zero, err
	}
	amountOut, err := amountOutGiven(amountIn, reserveIn, reserveOut)
	if err != nil {
		return zero, err
	}
	if amountOut.IsZero() {
		return zero, fmt.Errorf("%w: %s %s buys nothing", types.ErrInsufficientOutput, amountIn, denomIn)
	}
	return amountOut, nil
}

// amountOutGiven applies the fee-adjusted constant-product formula. Both
// divisions floor, favoring the pool.
func amountOutGiven(amountIn, reserveIn, reserveOut sdkmath.Int) (sdkmath.Int, error) {
	fee, err := utils.MulDiv(amountIn, sdkmath.NewInt(FeeBps), sdkmath.NewInt(bpsDenominator))
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("fee: %w", err)
	}
	afterFee := amountIn.Sub(fee)
	out, err := utils.MulDiv(afterFee, reserveOut, reserveIn.Add(afterFee))
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("pricing: %w", err)
	}
	return out, nil
}

func (e *Engine) orient(denomIn types.Denom) (token.Transferor, token.Transferor, sdkmath.Int, sdkmath.Int, error) {
	switch denomIn {
	case e.denomA:
		return e.assetA, e.assetB, e.reserveA, e.reserveB, nil
	case e.denomB:
		return e.assetB, e.assetA, e.reserveB, e.reserveA, nil
	default:
		return nil, nil, sdkmath.ZeroInt(), sdkmath.ZeroInt(),
			fmt.Errorf("%w: %s is not part of the %s/%s pool",
				types.ErrInvalidAsset, denomIn, e.denomA, e.denomB)
	}
}

func (e *Engine) creditReserve(denom types.Denom, amount sdkmath.Int) {
	if denom == e.denomA {
		e.reserveA = e.reserveA.Add(amount)
	} else {
		e.reserveB = e.reserveB.Add(amount)
	}
}

func (e *Engine) debitReserve(denom types.Denom, amount sdkmath.Int) {
	if denom == e.denomA {
		e.reserveA = e.reserveA.Sub(amount)
	} else {
		e.reserveB = e.reserveB.Sub(amount)
	}
}

func (e *Engine) shareBalance(account types.AccountID) sdkmath.Int {
	if bal, ok := e.shares[account]; ok {
		return bal
	}
	return sdkmath.ZeroInt()
}

func isPositive(v sdkmath.Int) bool {
	return !v.IsNil() && v.IsPositive()
}
