package pool

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
)

// faultyTransferor wraps a real transferor and fails selected legs, counting
// calls so tests can pin down which leg tripped.
type faultyTransferor struct {
	inner     token.Transferor
	failPull  bool
	failPush  bool
	pullCalls int
	pushCalls int
}

var errWireDown = errors.New("asset backend unavailable")

func (f *faultyTransferor) Denom() types.Denom { return f.inner.Denom() }

func (f *faultyTransferor) Pull(from types.AccountID, amount sdkmath.Int) error {
	f.pullCalls++
	if f.failPull {
		return errWireDown
	}
	return f.inner.Pull(from, amount)
}

func (f *faultyTransferor) Push(to types.AccountID, amount sdkmath.Int) error {
	f.pushCalls++
	if f.failPush {
		return errWireDown
	}
	return f.inner.Push(to, amount)
}

// reentrantTransferor calls back into the engine mid-transfer, the way a
// hostile asset hook would.
type reentrantTransferor struct {
	inner    token.Transferor
	callback func() error
	seen     error
}

func (r *reentrantTransferor) Denom() types.Denom { return r.inner.Denom() }

func (r *reentrantTransferor) Pull(from types.AccountID, amount sdkmath.Int) error {
	r.seen = r.callback()
	return r.inner.Pull(from, amount)
}

func (r *reentrantTransferor) Push(to types.AccountID, amount sdkmath.Int) error {
	return r.inner.Push(to, amount)
}

type faultyFixture struct {
	engine  *Engine
	ledgerA *token.Ledger
	ledgerB *token.Ledger
	faultA  *faultyTransferor
	faultB  *faultyTransferor
}

func newFaultyFixture(t *testing.T) *faultyFixture {
	t.Helper()

	ledgerA, err := token.NewLedger("uatom")
	require.NoError(t, err)
	ledgerB, err := token.NewLedger("uusdc")
	require.NoError(t, err)
	for _, account := range []types.AccountID{alice, bob} {
		require.NoError(t, ledgerA.Mint(account, sdkmath.NewInt(10_000_000)))
		require.NoError(t, ledgerB.Mint(account, sdkmath.NewInt(10_000_000)))
	}

	assetA, err := ledgerA.Custody(poolCustody)
	require.NoError(t, err)
	assetB, err := ledgerB.Custody(poolCustody)
	require.NoError(t, err)

	faultA := &faultyTransferor{inner: assetA}
	faultB := &faultyTransferor{inner: assetB}
	engine, err := NewEngine(Config{AssetA: faultA, AssetB: faultB, Recorder: types.NewMemoryRecorder(0)})
	require.NoError(t, err)

	return &faultyFixture{engine: engine, ledgerA: ledgerA, ledgerB: ledgerB, faultA: faultA, faultB: faultB}
}

type poolState struct {
	reserveA, reserveB, totalShares sdkmath.Int
	aliceShares                     sdkmath.Int
	aliceBalA, aliceBalB            sdkmath.Int
}

func (f *faultyFixture) snapshot(t *testing.T) poolState {
	t.Helper()
	reserveA, reserveB, err := f.engine.Reserves()
	require.NoError(t, err)
	total, err := f.engine.TotalShares()
	require.NoError(t, err)
	aliceShares, err := f.engine.SharesOf(alice)
	require.NoError(t, err)
	return poolState{
		reserveA:    reserveA,
		reserveB:    reserveB,
		totalShares: total,
		aliceShares: aliceShares,
		aliceBalA:   f.ledgerA.BalanceOf(alice),
		aliceBalB:   f.ledgerB.BalanceOf(alice),
	}
}

func TestAddLiquiditySecondPullFailureRefundsFirst(t *testing.T) {
	f := newFaultyFixture(t)
	f.faultB.failPull = true

	before := f.snapshot(t)
	_, err := f.engine.AddLiquidity(alice, sdkmath.NewInt(1000), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, errWireDown)

	assert.Equal(t, before, f.snapshot(t), "failed deposit leaves no trace")
	assert.Equal(t, 1, f.faultA.pullCalls)
	assert.Equal(t, 1, f.faultA.pushCalls, "first-leg pull was refunded")
}

func TestAddLiquidityFirstPullFailureTouchesNothing(t *testing.T) {
	f := newFaultyFixture(t)
	f.faultA.failPull = true

	before := f.snapshot(t)
	_, err := f.engine.AddLiquidity(alice, sdkmath.NewInt(1000), sdkmath.NewInt(1000))
	require.ErrorIs(t, err, errWireDown)

	assert.Equal(t, before, f.snapshot(t))
	assert.Equal(t, 0, f.faultB.pullCalls, "second leg is never attempted")
}

func TestRemoveLiquidityPushFailureRestoresDebits(t *testing.T) {
	f := newFaultyFixture(t)
	_, err := f.engine.AddLiquidity(alice, sdkmath.NewInt(1000), sdkmath.NewInt(1000))
	require.NoError(t, err)

	before := f.snapshot(t)
	f.faultB.failPush = true

	_, _, err = f.engine.RemoveLiquidity(alice, sdkmath.NewInt(400))
	require.ErrorIs(t, err, errWireDown)

	after := f.snapshot(t)
	assert.Equal(t, before, after, "shares and reserves restored, first push clawed back")
}

func TestSwapPushFailureRefundsInput(t *testing.T) {
	f := newFaultyFixture(t)
	_, err := f.engine.AddLiquidity(alice, sdkmath.NewInt(100_000), sdkmath.NewInt(100_000))
	require.NoError(t, err)

	before := f.snapshot(t)
	f.faultB.failPush = true

	_, err = f.engine.Swap(alice, "uatom", sdkmath.NewInt(10_000))
	require.ErrorIs(t, err, errWireDown)

	assert.Equal(t, before, f.snapshot(t), "reserves and the trader's wallet are untouched")

	// The engine recovers once the backend does.
	f.faultB.failPush = false
	out, err := f.engine.Swap(alice, "uatom", sdkmath.NewInt(10_000))
	require.NoError(t, err)
	assert.True(t, out.IsPositive())
}

func TestReentrantCallbackRejected(t *testing.T) {
	ledgerA, err := token.NewLedger("uatom")
	require.NoError(t, err)
	ledgerB, err := token.NewLedger("uusdc")
	require.NoError(t, err)
	require.NoError(t, ledgerA.Mint(alice, sdkmath.NewInt(1_000_000)))
	require.NoError(t, ledgerB.Mint(alice, sdkmath.NewInt(1_000_000)))

	assetA, err := ledgerA.Custody(poolCustody)
	require.NoError(t, err)
	assetB, err := ledgerB.Custody(poolCustody)
	require.NoError(t, err)

	hostile := &reentrantTransferor{inner: assetA}
	engine, err := NewEngine(Config{AssetA: hostile, AssetB: assetB, Recorder: types.NewMemoryRecorder(0)})
	require.NoError(t, err)

	hostile.callback = func() error {
		_, err := engine.Swap(alice, "uatom", sdkmath.NewInt(10))
		return err
	}

	_, err = engine.AddLiquidity(alice, sdkmath.NewInt(1000), sdkmath.NewInt(1000))
	require.NoError(t, err, "outer call completes normally")
	require.Error(t, hostile.seen)
	assert.ErrorIs(t, hostile.seen, types.ErrReentrancy, "nested entry fails at the door")

	// Reads inside the guarded section are rejected too.
	hostile.callback = func() error {
		_, _, err := engine.Reserves()
		return err
	}
	_, err = engine.AddLiquidity(alice, sdkmath.NewInt(100), sdkmath.NewInt(100))
	require.NoError(t, err)
	assert.ErrorIs(t, hostile.seen, types.ErrReentrancy)
}
