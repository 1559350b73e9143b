/*

In-process fungible asset ledger. The pool and farm engines never touch
balances directly: they move value exclusively through the Transferor
interface, which an external chain adapter can implement just as well as the
reference Ledger below.

*/

package token

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/types"
)

// Transferor moves a single asset between external accounts and a custodian.
// Pull debits the named account in favor of the custodian; Push pays the
// named account out of the custodian. Both report failure via error and must
// leave balances untouched when they fail.
type Transferor interface {
	Denom() types.Denom
	Pull(from types.AccountID, amount sdkmath.Int) error
	Push(to types.AccountID, amount sdkmath.Int) error
}

// Ledger is a mutex-guarded account ledger for one denom. Absent accounts
// hold zero.
type Ledger struct {
	mu       sync.Mutex
	denom    types.Denom
	balances map[types.AccountID]sdkmath.Int
}

// NewLedger creates an empty ledger for the given denom.
func NewLedger(denom types.Denom) (*Ledger, error) {
	if !denom.IsValid() {
		return nil, fmt.Errorf("%w: empty denom", types.ErrInvalidInput)
	}
	return &Ledger{
		denom:    denom,
		balances: make(map[types.AccountID]sdkmath.Int),
	}, nil
}

// Denom returns the asset this ledger tracks.
func (l *Ledger) Denom() types.Denom { return l.denom }

// Mint credits freshly created units to an account. Used only for genesis
// seeding and tests.
func (l *Ledger) Mint(account types.AccountID, amount sdkmath.Int) error {
	if !account.IsValid() || amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: mint %s to %q", types.ErrInvalidInput, amount, account)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = l.balanceLocked(account).Add(amount)
	return nil
}

// BalanceOf returns the current balance of an account.
func (l *Ledger) BalanceOf(account types.AccountID) sdkmath.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(account)
}

// Transfer moves amount between two accounts, failing without effect when
// the source balance is insufficient.
func (l *Ledger) Transfer(from, to types.AccountID, amount sdkmath.Int) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: transfer between %q and %q", types.ErrInvalidInput, from, to)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount %s", types.ErrInvalidInput, amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fromBal := l.balanceLocked(from)
	if fromBal.LT(amount) {
		return fmt.Errorf("%w: %s has %s %s, needs %s",
			types.ErrInsufficientBalance, from, fromBal, l.denom, amount)
	}
	l.balances[from] = fromBal.Sub(amount)
	l.balances[to] = l.balanceLocked(to).Add(amount)
	return nil
}

func (l *Ledger) balanceLocked(account types.AccountID) sdkmath.Int {
	if bal, ok := l.balances[account]; ok {
		return bal
	}
	return sdkmath.ZeroInt()
}

// Custody binds the ledger to a custodian account, yielding the Transferor
// the engines consume.
func (l *Ledger) Custody(custodian types.AccountID) (*CustodyTransferor, error) {
	if !custodian.IsValid() {
		return nil, fmt.Errorf("%w: empty custodian", types.ErrInvalidInput)
	}
	return &CustodyTransferor{
		ledger:    l,
		custodian: custodian,
		log:       logger.GetForComponent("token_custody"),
	}, nil
}
