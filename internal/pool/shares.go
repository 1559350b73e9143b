package pool

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
)

// TransferShares moves pool shares between two accounts. Shares are fungible
// receipts; this is what lets a farm custody staked shares. Total supply is
// unchanged.
func (e *Engine) TransferShares(from, to types.AccountID, amount sdkmath.Int) error {
	if err := e.enter("TransferShares"); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: share transfer between %q and %q", types.ErrInvalidInput, from, to)
	}
	if !isPositive(amount) {
		return fmt.Errorf("%w: share transfer amount %s", types.ErrInvalidInput, amount)
	}
	fromBal := e.shareBalance(from)
	if fromBal.LT(amount) {
		return fmt.Errorf("%w: %s holds %s shares, wants to move %s",
			types.ErrInsufficientBalance, from, fromBal, amount)
	}

	e.shares[from] = fromBal.Sub(amount)
	e.shares[to] = e.shareBalance(to).Add(amount)
	return nil
}

// SharesOf returns the account's current share balance.
func (e *Engine) SharesOf(account types.AccountID) (sdkmath.Int, error) {
	if err := e.enter("SharesOf"); err != nil {
		return sdkmath.ZeroInt(), err
	}
	defer e.mu.Unlock()
	return e.shareBalance(account), nil
}

// ShareTransferor adapts the pool's share ledger to the token.Transferor
// interface so shares can be staked like any other asset.
type ShareTransferor struct {
	engine    *Engine
	custodian types.AccountID
}

var _ token.Transferor = (*ShareTransferor)(nil)

// NewShareTransferor binds the pool's share ledger to a custodian account.
func NewShareTransferor(engine *Engine, custodian types.AccountID) (*ShareTransferor, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: engine is required", types.ErrInvalidInput)
	}
	if !custodian.IsValid() {
		return nil, fmt.Errorf("%w: empty custodian", types.ErrInvalidInput)
	}
	return &ShareTransferor{engine: engine, custodian: custodian}, nil
}

func (s *ShareTransferor) Denom() types.Denom { return s.engine.ShareDenom() }

func (s *ShareTransferor) Pull(from types.AccountID, amount sdkmath.Int) error {
	if err := s.engine.TransferShares(from, s.custodian, amount); err != nil {
		return fmt.Errorf("%w: pull %s %s from %s: %w",
			types.ErrTransferFailed, amount, s.Denom(), from, err)
	}
	return nil
}

func (s *ShareTransferor) Push(to types.AccountID, amount sdkmath.Int) error {
	if err := s.engine.TransferShares(s.custodian, to, amount); err != nil {
		return fmt.Errorf("%w: push %s %s to %s: %w",
			types.ErrTransferFailed, amount, s.Denom(), to, err)
	}
	return nil
}
