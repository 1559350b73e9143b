package types

import "errors"

// Error taxonomy for the pool and farm engines. Every failure is synchronous
// and leaves no partial state behind; callers branch on cause with errors.Is.
var (
	// ErrInvalidInput covers zero or negative amounts and malformed identities.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAsset is returned when a swap or quote names a denom that is
	// not one of the pool's configured pair.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrInsufficientBalance is returned when a caller asks to redeem or
	// unstake more than it owns.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientOutput is returned when a computed output rounds to
	// zero. The operation is rejected rather than silently doing nothing.
	ErrInsufficientOutput = errors.New("insufficient output")

	// ErrInsufficientLiquidityMinted is returned when a deposit would mint
	// zero shares.
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")

	// ErrTransferFailed is returned when the asset transfer collaborator
	// reports failure on a pull or push.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrReentrancy is returned when a nested call is detected while an
	// engine operation is still executing.
	ErrReentrancy = errors.New("reentrant call")

	// ErrUnauthorized is returned when a non-controller invokes an
	// admin-only operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNothingToClaim is returned when a claim settles to zero reward.
	ErrNothingToClaim = errors.New("nothing to claim")
)
