package token

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestdex/crest/internal/types"
)

const (
	alice     = types.AccountID("alice")
	bob       = types.AccountID("bob")
	custodian = types.AccountID("pool-custody")
)

func newFundedLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := NewLedger("uatom")
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(alice, sdkmath.NewInt(1_000_000)))
	return ledger
}

func TestNewLedgerRejectsEmptyDenom(t *testing.T) {
	_, err := NewLedger("  ")
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestMintAndBalance(t *testing.T) {
	ledger := newFundedLedger(t)

	assert.Equal(t, sdkmath.NewInt(1_000_000), ledger.BalanceOf(alice))
	assert.Equal(t, sdkmath.ZeroInt(), ledger.BalanceOf(bob), "absent accounts hold zero")

	err := ledger.Mint(alice, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestTransfer(t *testing.T) {
	ledger := newFundedLedger(t)

	require.NoError(t, ledger.Transfer(alice, bob, sdkmath.NewInt(400_000)))
	assert.Equal(t, sdkmath.NewInt(600_000), ledger.BalanceOf(alice))
	assert.Equal(t, sdkmath.NewInt(400_000), ledger.BalanceOf(bob))
}

func TestTransferInsufficientBalance(t *testing.T) {
	ledger := newFundedLedger(t)

	err := ledger.Transfer(bob, alice, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	// Nothing moved.
	assert.Equal(t, sdkmath.NewInt(1_000_000), ledger.BalanceOf(alice))
	assert.Equal(t, sdkmath.ZeroInt(), ledger.BalanceOf(bob))
}

func TestTransferRejectsNonPositive(t *testing.T) {
	ledger := newFundedLedger(t)

	err := ledger.Transfer(alice, bob, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidInput)

	err = ledger.Transfer(alice, bob, sdkmath.NewInt(-10))
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestCustodyPullPush(t *testing.T) {
	ledger := newFundedLedger(t)
	transferor, err := ledger.Custody(custodian)
	require.NoError(t, err)

	assert.Equal(t, types.Denom("uatom"), transferor.Denom())
	assert.Equal(t, custodian, transferor.Custodian())

	require.NoError(t, transferor.Pull(alice, sdkmath.NewInt(250_000)))
	assert.Equal(t, sdkmath.NewInt(250_000), ledger.BalanceOf(custodian))
	assert.Equal(t, sdkmath.NewInt(750_000), ledger.BalanceOf(alice))

	require.NoError(t, transferor.Push(bob, sdkmath.NewInt(100_000)))
	assert.Equal(t, sdkmath.NewInt(150_000), ledger.BalanceOf(custodian))
	assert.Equal(t, sdkmath.NewInt(100_000), ledger.BalanceOf(bob))
}

func TestCustodyFailuresAreTransferFailed(t *testing.T) {
	ledger := newFundedLedger(t)
	transferor, err := ledger.Custody(custodian)
	require.NoError(t, err)

	err = transferor.Pull(bob, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	err = transferor.Push(alice, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrTransferFailed)
}
