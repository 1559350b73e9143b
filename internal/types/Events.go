/*

Event records emitted by the engines for external observers and indexers.
Every mutating operation that commits produces exactly one event; a failed
operation produces none.

*/

package types

import (
	"time"

	"cosmossdk.io/math"
	"github.com/google/uuid"
)

// EventKind discriminates the event envelope.
type EventKind string

const (
	EventLiquidityAdded    EventKind = "liquidity_added"
	EventLiquidityRemoved  EventKind = "liquidity_removed"
	EventSwap              EventKind = "swap"
	EventStaked            EventKind = "staked"
	EventUnstaked          EventKind = "unstaked"
	EventRewardClaimed     EventKind = "reward_claimed"
	EventRewardRateChanged EventKind = "reward_rate_changed"
)

// Event is the common envelope for all emitted records. Fields that do not
// apply to a given kind are zero-valued.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Kind      EventKind `json:"kind"`
	Account   AccountID `json:"account"`
	Denom     Denom     `json:"denom,omitempty"`
	AmountA   math.Int  `json:"amount_a"`
	AmountB   math.Int  `json:"amount_b"`
	Shares    math.Int  `json:"shares"`
	Timestamp time.Time `json:"timestamp"`
}

func newEvent(kind EventKind, account AccountID) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		Account:   account,
		AmountA:   math.ZeroInt(),
		AmountB:   math.ZeroInt(),
		Shares:    math.ZeroInt(),
		Timestamp: time.Now().UTC(),
	}
}

// NewLiquidityAddedEvent records a deposit of both pool assets and the
// shares minted for it.
func NewLiquidityAddedEvent(account AccountID, amountA, amountB, shares math.Int) Event {
	ev := newEvent(EventLiquidityAdded, account)
	ev.AmountA = amountA
	ev.AmountB = amountB
	ev.Shares = shares
	return ev
}

// NewLiquidityRemovedEvent records a share redemption and the amounts paid out.
func NewLiquidityRemovedEvent(account AccountID, amountA, amountB, shares math.Int) Event {
	ev := newEvent(EventLiquidityRemoved, account)
	ev.AmountA = amountA
	ev.AmountB = amountB
	ev.Shares = shares
	return ev
}

// NewSwapEvent records a swap. Denom is the input asset; AmountA is the
// amount in, AmountB the amount out.
func NewSwapEvent(account AccountID, denomIn Denom, amountIn, amountOut math.Int) Event {
	ev := newEvent(EventSwap, account)
	ev.Denom = denomIn
	ev.AmountA = amountIn
	ev.AmountB = amountOut
	return ev
}

func NewStakedEvent(account AccountID, amount math.Int) Event {
	ev := newEvent(EventStaked, account)
	ev.AmountA = amount
	return ev
}

func NewUnstakedEvent(account AccountID, amount math.Int) Event {
	ev := newEvent(EventUnstaked, account)
	ev.AmountA = amount
	return ev
}

func NewRewardClaimedEvent(account AccountID, amount math.Int) Event {
	ev := newEvent(EventRewardClaimed, account)
	ev.AmountA = amount
	return ev
}

// NewRewardRateChangedEvent records an administrative rate change. AmountA
// carries the new rate.
func NewRewardRateChangedEvent(controller AccountID, newRate math.Int) Event {
	ev := newEvent(EventRewardRateChanged, controller)
	ev.AmountA = newRate
	return ev
}
