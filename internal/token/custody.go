package token

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/crestdex/crest/internal/types"
)

// CustodyTransferor implements Transferor over a Ledger with a fixed
// custodian account holding the pooled funds.
type CustodyTransferor struct {
	ledger    *Ledger
	custodian types.AccountID
	log       zerolog.Logger
}

func (c *CustodyTransferor) Denom() types.Denom { return c.ledger.Denom() }

// Custodian returns the account holding custodied funds.
func (c *CustodyTransferor) Custodian() types.AccountID { return c.custodian }

// Pull debits the caller in favor of the custodian.
func (c *CustodyTransferor) Pull(from types.AccountID, amount sdkmath.Int) error {
	if err := c.ledger.Transfer(from, c.custodian, amount); err != nil {
		c.log.Debug().
			Str("denom", c.ledger.Denom().String()).
			Str("from", from.String()).
			Str("amount", amount.String()).
			Err(err).
			Msg("Pull rejected")
		return fmt.Errorf("%w: pull %s %s from %s: %w",
			types.ErrTransferFailed, amount, c.ledger.Denom(), from, err)
	}
	return nil
}

// Push pays the recipient out of the custodian.
func (c *CustodyTransferor) Push(to types.AccountID, amount sdkmath.Int) error {
	if err := c.ledger.Transfer(c.custodian, to, amount); err != nil {
		c.log.Debug().
			Str("denom", c.ledger.Denom().String()).
			Str("to", to.String()).
			Str("amount", amount.String()).
			Err(err).
			Msg("Push rejected")
		return fmt.Errorf("%w: push %s %s to %s: %w",
			types.ErrTransferFailed, amount, c.ledger.Denom(), to, err)
	}
	return nil
}
