package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestdex/crest/internal/farm"
	"github.com/crestdex/crest/internal/pool"
	"github.com/crestdex/crest/internal/token"
	"github.com/crestdex/crest/internal/types"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

// newTestServer wires real engines behind the HTTP layer so handler tests
// exercise the same paths the binary does.
func newTestServer(t *testing.T) (*WebServer, *stubClock) {
	t.Helper()

	ledgerA, err := token.NewLedger("uatom")
	require.NoError(t, err)
	ledgerB, err := token.NewLedger("uusdc")
	require.NoError(t, err)
	rewardLedger, err := token.NewLedger("ucrest")
	require.NoError(t, err)

	require.NoError(t, ledgerA.Mint("alice", sdkmath.NewInt(10_000_000)))
	require.NoError(t, ledgerB.Mint("alice", sdkmath.NewInt(10_000_000)))
	require.NoError(t, rewardLedger.Mint("farm-custody", sdkmath.NewInt(1_000_000_000)))

	assetA, err := ledgerA.Custody("pool-custody")
	require.NoError(t, err)
	assetB, err := ledgerB.Custody("pool-custody")
	require.NoError(t, err)

	recorder := types.NewMemoryRecorder(100)
	poolEngine, err := pool.NewEngine(pool.Config{AssetA: assetA, AssetB: assetB, Recorder: recorder})
	require.NoError(t, err)

	stakeAsset, err := pool.NewShareTransferor(poolEngine, "farm-custody")
	require.NoError(t, err)
	rewardAsset, err := rewardLedger.Custody("farm-custody")
	require.NoError(t, err)

	clock := &stubClock{now: time.Unix(1_700_000_000, 0).UTC()}
	farmEngine, err := farm.NewEngine(farm.Config{
		StakeAsset:  stakeAsset,
		RewardAsset: rewardAsset,
		Controller:  "controller",
		RewardRate:  sdkmath.NewInt(100),
		Clock:       clock,
		Recorder:    recorder,
	})
	require.NoError(t, err)

	events := func(limit int) ([]types.Event, error) {
		all := recorder.Events()
		if limit > 0 && len(all) > limit {
			all = all[len(all)-limit:]
		}
		return all, nil
	}

	return NewWebServer("0", poolEngine, farmEngine, events), clock
}

func do(t *testing.T, ws *WebServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	ws, _ := newTestServer(t)
	rec := do(t, ws, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestLiquidityAndSwapFlow(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := do(t, ws, http.MethodPost, "/api/pool/liquidity", liquidityRequest{
		Account: "alice", AmountA: "1000", AmountB: "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1000", decode(t, rec)["shares"])

	rec = do(t, ws, http.MethodGet, "/api/pool/quote?denom_in=uatom&amount_in=100000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "990", decode(t, rec)["amount"])

	rec = do(t, ws, http.MethodPost, "/api/pool/swap", swapRequest{
		Account: "alice", DenomIn: "uatom", AmountIn: "100000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "990", decode(t, rec)["amount"])

	rec = do(t, ws, http.MethodGet, "/api/pool/shares/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000", decode(t, rec)["amount"])

	rec = do(t, ws, http.MethodDelete, "/api/pool/liquidity", liquidityRequest{
		Account: "alice", Shares: "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestFarmFlow(t *testing.T) {
	ws, clock := newTestServer(t)

	rec := do(t, ws, http.MethodPost, "/api/pool/liquidity", liquidityRequest{
		Account: "alice", AmountA: "10000", AmountB: "10000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, ws, http.MethodPost, "/api/farm/stake", stakeRequest{Account: "alice", Amount: "100"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	clock.now = clock.now.Add(10 * time.Second)

	rec = do(t, ws, http.MethodGet, "/api/farm/earned/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000", decode(t, rec)["amount"])

	rec = do(t, ws, http.MethodPost, "/api/farm/claim", stakeRequest{Account: "alice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1000", decode(t, rec)["amount"])

	rec = do(t, ws, http.MethodPost, "/api/farm/unstake", stakeRequest{Account: "alice", Amount: "100"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestErrorStatusMapping(t *testing.T) {
	ws, _ := newTestServer(t)

	// Empty pool: swap against unknown denom is a bad request.
	rec := do(t, ws, http.MethodPost, "/api/pool/swap", swapRequest{
		Account: "alice", DenomIn: "doge", AmountIn: "100",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing accrued yet: the claim is semantically unprocessable.
	rec = do(t, ws, http.MethodPost, "/api/farm/claim", stakeRequest{Account: "alice"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Non-controller rate change is forbidden.
	rec = do(t, ws, http.MethodPut, "/api/farm/reward-rate", rewardRateRequest{
		Caller: "alice", Rate: "50",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Malformed amounts never reach the engines.
	rec = do(t, ws, http.MethodPost, "/api/farm/stake", stakeRequest{Account: "alice", Amount: "not-a-number"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventsEndpoint(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := do(t, ws, http.MethodPost, "/api/pool/liquidity", liquidityRequest{
		Account: "alice", AmountA: "1000", AmountB: "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, ws, http.MethodGet, "/api/events?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []types.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, types.EventLiquidityAdded, events[0].Kind)

	rec = do(t, ws, http.MethodGet, "/api/events?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
