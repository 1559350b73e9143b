/*

Continuous reward accrual over a stake ledger. There is no scheduler: every
mutating call first settles the pool-wide reward-per-token accumulator up to
the current time, then realizes the acting account's delta against its own
checkpoint. Each account's earned amount is therefore O(1) regardless of how
many other accounts have interacted in between.

*/

package farm

import (
	"fmt"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
)

// Precision is the fixed-point scale of the reward-per-token accumulator.
// 1e18 keeps truncation loss negligible against realistic reward magnitudes.
var Precision = sdkmath.NewInt(1_000_000_000_000_000_000)

// Engine is the reward farm state machine. The staked asset is opaque: any
// token.Transferor works, including the pool's share ledger.
type Engine struct {
	mu sync.Mutex

	stakeAsset  token.Transferor
	rewardAsset token.Transferor
	controller  types.AccountID
	clock       Clock

	totalStaked sdkmath.Int
	staked      map[types.AccountID]sdkmath.Int
	rewardRate  sdkmath.Int // reward units emitted per second, pool-wide
	accumulator sdkmath.Int // reward per staked unit, scaled by Precision
	lastUpdate  time.Time
	paid        map[types.AccountID]sdkmath.Int
	pending     map[types.AccountID]sdkmath.Int

	recorder types.Recorder
	log      zerolog.Logger
}

// Config holds the dependencies for creating a farm engine.
type Config struct {
	StakeAsset  token.Transferor
	RewardAsset token.Transferor
	Controller  types.AccountID
	RewardRate  sdkmath.Int
	Clock       Clock
	Recorder    types.Recorder
}

// NewEngine creates an empty farm with the given initial emission rate.
func NewEngine(cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("farm configuration validation failed: %w", err)
	}

	e := &Engine{
		stakeAsset:  cfg.StakeAsset,
		rewardAsset: cfg.RewardAsset,
		controller:  cfg.Controller,
		clock:       cfg.Clock,
		totalStaked: sdkmath.ZeroInt(),
		staked:      make(map[types.AccountID]sdkmath.Int),
		rewardRate:  cfg.RewardRate,
		accumulator: sdkmath.ZeroInt(),
		lastUpdate:  cfg.Clock.Now(),
		paid:        make(map[types.AccountID]sdkmath.Int),
		pending:     make(map[types.AccountID]sdkmath.Int),
		recorder:    cfg.Recorder,
		log:         logger.GetForComponent("farm_engine"),
	}

	e.log.Info().
		Str("stakeDenom", cfg.StakeAsset.Denom().String()).
		Str("rewardDenom", cfg.RewardAsset.Denom().String()).
		Str("rewardRate", cfg.RewardRate.String()).
		Str("controller", cfg.Controller.String()).
		Msg("Farm engine created")

	return e, nil
}

func validateConfig(cfg Config) error {
	if cfg.StakeAsset == nil || cfg.RewardAsset == nil {
		return fmt.Errorf("%w: stake and reward transferors are required", types.ErrInvalidInput)
	}
	if !cfg.StakeAsset.Denom().IsValid() || !cfg.RewardAsset.Denom().IsValid() {
		return fmt.Errorf("%w: asset denoms must be non-empty", types.ErrInvalidInput)
	}
	if !cfg.Controller.IsValid() {
		return fmt.Errorf("%w: controller account is required", types.ErrInvalidInput)
	}
	if cfg.RewardRate.IsNil() || cfg.RewardRate.IsNegative() {
		return fmt.Errorf("%w: reward rate must be non-negative, got %s",
			types.ErrInvalidInput, cfg.RewardRate)
	}
	if cfg.Clock == nil {
		return fmt.Errorf("%w: clock is required", types.ErrInvalidInput)
	}
	if cfg.Recorder == nil {
		return fmt.Errorf("%w: recorder is required", types.ErrInvalidInput)
	}
	return nil
}

func (e *Engine) enter(op string) error {
	if !e.mu.TryLock() {
		return fmt.Errorf("%w: %s", types.ErrReentrancy, op)
	}
	return nil
}

// settle integrates the accumulator up to now. With nothing staked only the
// clock advances: rewards do not accrue to an empty farm, so the first
// staker never harvests backdated emissions.
func (e *Engine) settle(now time.Time) {
	elapsed := elapsedSeconds(e.lastUpdate, now)
	if elapsed > 0 && e.totalStaked.IsPositive() {
		grown := e.rewardRate.MulRaw(elapsed).Mul(Precision).Quo(e.totalStaked)
		e.accumulator = e.accumulator.Add(grown)
	}
	e.lastUpdate = now
}

// accrue realizes the acting account's reward delta since its last
// checkpoint. Runs after settle inside every mutating call.
func (e *Engine) accrue(account types.AccountID) {
	delta := e.accumulator.Sub(e.paidOf(account))
	if delta.IsPositive() {
		owed := e.stakedOf(account).Mul(delta).Quo(Precision)
		e.pending[account] = e.pendingOf(account).Add(owed)
	}
	e.paid[account] = e.accumulator
}

// Stake pulls amount of the stake asset from the account and adds it to the
// ledger. Settlement runs first so the new stake earns only from now on.
func (e *Engine) Stake(account types.AccountID, amount sdkmath.Int) error {
	if err := e.enter("Stake"); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: stake amount must be positive, got %s",
			types.ErrInvalidInput, amount)
	}

	e.settle(e.clock.Now())
	e.accrue(account)

	if err := e.stakeAsset.Pull(account, amount); err != nil {
		return err
	}

	e.staked[account] = e.stakedOf(account).Add(amount)
	e.totalStaked = e.totalStaked.Add(amount)

	e.recorder.Record(types.NewStakedEvent(account, amount))
	e.log.Info().
		Str("account", account.String()).
		Str("amount", amount.String()).
		Str("totalStaked", e.totalStaked.String()).
		Msg("Stake added")

	return nil
}

// Unstake returns amount of the stake asset to the account. The ledger is
// debited before the push and restored if the push fails.
func (e *Engine) Unstake(account types.AccountID, amount sdkmath.Int) error {
	if err := e.enter("Unstake"); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: unstake amount must be positive, got %s",
			types.ErrInvalidInput, amount)
	}
	balance := e.stakedOf(account)
	if balance.LT(amount) {
		return fmt.Errorf("%w: %s has %s staked, wants %s",
			types.ErrInsufficientBalance, account, balance, amount)
	}

	e.settle(e.clock.Now())
	e.accrue(account)

	e.staked[account] = balance.Sub(amount)
	e.totalStaked = e.totalStaked.Sub(amount)

	if err := e.stakeAsset.Push(account, amount); err != nil {
		e.staked[account] = balance
		e.totalStaked = e.totalStaked.Add(amount)
		return err
	}

	e.recorder.Record(types.NewUnstakedEvent(account, amount))
	e.log.Info().
		Str("account", account.String()).
		Str("amount", amount.String()).
		Str("totalStaked", e.totalStaked.String()).
		Msg("Stake removed")

	return nil
}

// Claim pays out the account's settled rewards. Pending is zeroed before the
// external push so a reentrant transfer callback cannot observe a claimable
// balance that is already being paid.
func (e *Engine) Claim(account types.AccountID) (sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()
	if err := e.enter("Claim"); err != nil {
		return zero, err
	}
	defer e.mu.Unlock()

	if !account.IsValid() {
		return zero, fmt.Errorf("%w: empty account", types.ErrInvalidInput)
	}

	e.settle(e.clock.Now())
	e.accrue(account)

	owed := e.pendingOf(account)
	if owed.IsZero() {
		return zero, fmt.Errorf("%w: %s", types.ErrNothingToClaim, account)
	}

	e.pending[account] = sdkmath.ZeroInt()

	if err := e.rewardAsset.Push(account, owed); err != nil {
		e.pending[account] = owed
		return zero, err
	}

	e.recorder.Record(types.NewRewardClaimedEvent(account, owed))
	e.log.Info().
		Str("account", account.String()).
		Str("amount", owed.String()).
		Msg("Rewards claimed")

	return owed, nil
}

// SetRewardRate changes the emission rate, controller-only. Settlement runs
// first so the new rate applies strictly from now onward.
func (e *Engine) SetRewardRate(caller types.AccountID, newRate sdkmath.Int) error {
	if err := e.enter("SetRewardRate"); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if caller != e.controller {
		return fmt.Errorf("%w: %s is not the farm controller", types.ErrUnauthorized, caller)
	}
	if newRate.IsNil() || newRate.IsNegative() {
		return fmt.Errorf("%w: reward rate must be non-negative, got %s",
			types.ErrInvalidInput, newRate)
	}

	e.settle(e.clock.Now())
	oldRate := e.rewardRate
	e.rewardRate = newRate

	e.recorder.Record(types.NewRewardRateChangedEvent(caller, newRate))
	e.log.Info().
		Str("oldRate", oldRate.String()).
		Str("newRate", newRate.String()).
		Msg("Reward rate changed")

	return nil
}

// Earned projects the account's claimable reward at the current time without
// committing anything: it recomputes what settle and accrue would produce.
func (e *Engine) Earned(account types.AccountID) (sdkmath.Int, error) {
	if err := e.enter("Earned"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()

	projected := e.accumulator
	elapsed := elapsedSeconds(e.lastUpdate, e.clock.Now())
	if elapsed > 0 && e.totalStaked.IsPositive() {
		projected = projected.Add(e.rewardRate.MulRaw(elapsed).Mul(Precision).Quo(e.totalStaked))
	}

	delta := projected.Sub(e.paidOf(account))
	owed := e.pendingOf(account)
	if delta.IsPositive() {
		owed = owed.Add(e.stakedOf(account).Mul(delta).Quo(Precision))
	}
	return owed, nil
}

func (e *Engine) stakedOf(account types.AccountID) sdkmath.Int {
	if v, ok := e.staked[account]; ok {
		return v
	}
	return sdkmath.ZeroInt()
}

func (e *Engine) paidOf(account types.AccountID) sdkmath.Int {
	if v, ok := e.paid[account]; ok {
		return v
	}
	return sdkmath.ZeroInt()
}

func (e *Engine) pendingOf(account types.AccountID) sdkmath.Int {
	if v, ok := e.pending[account]; ok {
		return v
	}
	return sdkmath.ZeroInt()
}

// elapsedSeconds floors to whole seconds; the clock never runs backwards.
func elapsedSeconds(from, to time.Time) int64 {
	if !to.After(from) {
		return 0
	}
	return to.Unix() - from.Unix()
}
