package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/crestdex/crest/internal/types"
	"github.com/crestdex/crest/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

type amountResponse struct {
	Amount string `json:"amount"`
}

type liquidityRequest struct {
	Account string `json:"account"`
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
	Shares  string `json:"shares"`
}

type swapRequest struct {
	Account  string `json:"account"`
	DenomIn  string `json:"denom_in"`
	AmountIn string `json:"amount_in"`
}

type stakeRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type rewardRateRequest struct {
	Caller string `json:"caller"`
	Rate   string `json:"rate"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps the engine error taxonomy onto HTTP status codes so
// clients can branch on cause without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidInput), errors.Is(err, types.ErrInvalidAsset):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrInsufficientBalance),
		errors.Is(err, types.ErrInsufficientOutput),
		errors.Is(err, types.ErrInsufficientLiquidityMinted),
		errors.Is(err, types.ErrTransferFailed),
		errors.Is(err, types.ErrNothingToClaim):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrReentrancy):
		status = http.StatusConflict
	case errors.Is(err, types.ErrUnauthorized):
		status = http.StatusForbidden
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body: " + err.Error()})
		return false
	}
	return true
}

func parseAmountField(w http.ResponseWriter, name, value string) (sdkmath.Int, bool) {
	amount, err := utils.ParseAmount(value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: name + ": " + err.Error()})
		return sdkmath.ZeroInt(), false
	}
	return amount, true
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (ws *WebServer) handlePoolSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ws.pool.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ws *WebServer) handlePoolQuote(w http.ResponseWriter, r *http.Request) {
	denomIn := types.Denom(r.URL.Query().Get("denom_in"))
	amountIn, ok := parseAmountField(w, "amount_in", r.URL.Query().Get("amount_in"))
	if !ok {
		return
	}
	amountOut, err := ws.pool.Quote(denomIn, amountIn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: amountOut.String()})
}

func (ws *WebServer) handlePoolShares(w http.ResponseWriter, r *http.Request) {
	account := types.AccountID(mux.Vars(r)["account"])
	shares, err := ws.pool.SharesOf(account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: shares.String()})
}

func (ws *WebServer) handleAddLiquidity(w http.ResponseWriter, r *http.Request) {
	var req liquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amountA, ok := parseAmountField(w, "amount_a", req.AmountA)
	if !ok {
		return
	}
	amountB, ok := parseAmountField(w, "amount_b", req.AmountB)
	if !ok {
		return
	}
	shares, err := ws.pool.AddLiquidity(types.AccountID(req.Account), amountA, amountB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shares": shares.String()})
}

func (ws *WebServer) handleRemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	var req liquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	shares, ok := parseAmountField(w, "shares", req.Shares)
	if !ok {
		return
	}
	amountA, amountB, err := ws.pool.RemoveLiquidity(types.AccountID(req.Account), shares)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"amount_a": amountA.String(),
		"amount_b": amountB.String(),
	})
}

func (ws *WebServer) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amountIn, ok := parseAmountField(w, "amount_in", req.AmountIn)
	if !ok {
		return
	}
	amountOut, err := ws.pool.Swap(types.AccountID(req.Account), types.Denom(req.DenomIn), amountIn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: amountOut.String()})
}

func (ws *WebServer) handleFarmSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ws.farm.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ws *WebServer) handleFarmEarned(w http.ResponseWriter, r *http.Request) {
	account := types.AccountID(mux.Vars(r)["account"])
	earned, err := ws.farm.Earned(account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: earned.String()})
}

func (ws *WebServer) handleFarmStaked(w http.ResponseWriter, r *http.Request) {
	account := types.AccountID(mux.Vars(r)["account"])
	staked, err := ws.farm.StakedOf(account)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: staked.String()})
}

func (ws *WebServer) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, ok := parseAmountField(w, "amount", req.Amount)
	if !ok {
		return
	}
	if err := ws.farm.Stake(types.AccountID(req.Account), amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "staked"})
}

func (ws *WebServer) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, ok := parseAmountField(w, "amount", req.Amount)
	if !ok {
		return
	}
	if err := ws.farm.Unstake(types.AccountID(req.Account), amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unstaked"})
}

func (ws *WebServer) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	claimed, err := ws.farm.Claim(types.AccountID(req.Account))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: claimed.String()})
}

func (ws *WebServer) handleSetRewardRate(w http.ResponseWriter, r *http.Request) {
	var req rewardRateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rate, ok := parseAmountField(w, "rate", req.Rate)
	if !ok {
		return
	}
	if err := ws.farm.SetRewardRate(types.AccountID(req.Caller), rate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (ws *WebServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	events, err := ws.events(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
