package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/database"
	"github.com/trogers1052/portfolio-service/internal/kafka"
	"github.com/trogers1052/portfolio-service/internal/ledger"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// PriceService is the latest-price snapshot the portfolio views are
// valued against, with explicit invalidation after ledger writes.
type PriceService interface {
	LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	Invalidate(ctx context.Context, symbols ...string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db        *database.DB
	prices    PriceService
	producer  *kafka.Producer
	benchmark string
	log       zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, prices PriceService, producer *kafka.Producer, benchmark string, log zerolog.Logger) *Handler {
	return &Handler{
		db:        db,
		prices:    prices,
		producer:  producer,
		benchmark: benchmark,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.db.CreateUser(req.Username, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.db.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// AddTransaction handles POST /users/{userID}/transactions
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		Kind       string          `json:"kind"`
		Symbol     string          `json:"symbol"`
		Quantity   decimal.Decimal `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
		Commission decimal.Decimal `json:"commission"`
		TradeDate  string          `json:"trade_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	kind := strings.ToUpper(req.Kind)
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	switch {
	case kind != models.KindBuy && kind != models.KindSell:
		http.Error(w, "kind must be BUY or SELL", http.StatusBadRequest)
		return
	case symbol == "":
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	case !req.Quantity.IsPositive():
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	case !req.Price.IsPositive():
		http.Error(w, "price must be positive", http.StatusBadRequest)
		return
	case req.Commission.IsNegative():
		http.Error(w, "commission cannot be negative", http.StatusBadRequest)
		return
	}

	var tradeDate time.Time
	if req.TradeDate != "" {
		tradeDate, err = time.Parse("2006-01-02", req.TradeDate)
		if err != nil {
			http.Error(w, "trade_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	if kind == models.KindSell {
		txs, err := h.db.GetTransactionsByUser(userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := ledger.ValidateSell(txs, symbol, req.Quantity); err != nil {
			if errors.Is(err, ledger.ErrInsufficientShares) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	tx := &models.Transaction{
		UserID:     userID,
		Kind:       kind,
		Symbol:     symbol,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Commission: req.Commission,
		TradeDate:  tradeDate,
	}
	if err := h.db.CreateTransaction(tx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTransactionRecorded(r.Context(), tx); err != nil {
			h.log.Error().Err(err).Int("transaction_id", tx.ID).Msg("failed to publish transaction event")
		}
	}
	if err := h.prices.Invalidate(r.Context(), symbol); err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("failed to invalidate cached price")
	}

	respondJSON(w, http.StatusCreated, tx)
}

// GetTransactions handles GET /users/{userID}/transactions
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	txs, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

// DeleteTransaction handles DELETE /users/{userID}/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	tx, err := h.db.GetTransactionByID(id)
	if err != nil || tx.UserID != userID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	if err := h.db.DeleteTransaction(id, userID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTransactionDeleted(r.Context(), tx); err != nil {
			h.log.Error().Err(err).Int("transaction_id", id).Msg("failed to publish deletion event")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddWithdrawal handles POST /users/{userID}/withdrawals
func (h *Handler) AddWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount         decimal.Decimal `json:"amount"`
		WithdrawalDate string          `json:"withdrawal_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	var withdrawalDate time.Time
	if req.WithdrawalDate != "" {
		withdrawalDate, err = time.Parse("2006-01-02", req.WithdrawalDate)
		if err != nil {
			http.Error(w, "withdrawal_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	txs, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	wds, err := h.db.GetWithdrawalsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := ledger.ValidateWithdrawal(txs, wds, req.Amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientCash) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	wd := &models.Withdrawal{
		UserID:         userID,
		Amount:         req.Amount,
		WithdrawalDate: withdrawalDate,
	}
	if err := h.db.CreateWithdrawal(wd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishWithdrawalRecorded(r.Context(), wd); err != nil {
			h.log.Error().Err(err).Int("withdrawal_id", wd.ID).Msg("failed to publish withdrawal event")
		}
	}

	respondJSON(w, http.StatusCreated, wd)
}

// GetWithdrawals handles GET /users/{userID}/withdrawals
func (h *Handler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	wds, err := h.db.GetWithdrawalsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, wds)
}

// DeleteWithdrawal handles DELETE /users/{userID}/withdrawals/{id}
func (h *Handler) DeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid withdrawal id", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteWithdrawal(id, userID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHoldings handles GET /users/{userID}/portfolio/holdings
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	txs, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	prices, err := h.latestPrices(r.Context(), txs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, ledger.HoldingsTable(txs, prices))
}

// GetSummary handles GET /users/{userID}/portfolio/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	txs, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	wds, err := h.db.GetWithdrawalsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	prices, err := h.latestPrices(r.Context(), txs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, ledger.Summarize(txs, wds, prices))
}

// GetHistory handles GET /users/{userID}/portfolio/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	txs, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	wds, err := h.db.GetWithdrawalsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	history, err := h.priceHistory(txs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	series := ledger.History(txs, wds, history)
	if series == nil {
		series = []ledger.NAVPoint{}
	}
	respondJSON(w, http.StatusOK, series)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// latestPrices snapshots the current price for every symbol the log has
// ever touched. Symbols of closed positions cost nothing extra and keep
// the snapshot usable for both holdings and summary views.
func (h *Handler) latestPrices(ctx context.Context, txs []models.Transaction) (map[string]decimal.Decimal, error) {
	symbols := transactionSymbols(txs)
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	return h.prices.LatestPrices(ctx, symbols)
}

// priceHistory assembles the daily price table for the replay: closes
// for every traded symbol plus the benchmark from the first trade date
// onward, indexed by the distinct dates the store has closes for.
func (h *Handler) priceHistory(txs []models.Transaction) (ledger.PriceHistory, error) {
	var history ledger.PriceHistory
	if len(txs) == 0 {
		return history, nil
	}

	start := txs[0].TradeDate
	for _, tx := range txs[1:] {
		if tx.TradeDate.Before(start) {
			start = tx.TradeDate
		}
	}

	symbols := append(transactionSymbols(txs), h.benchmark)
	closes, err := h.db.GetDailyCloses(symbols, start)
	if err != nil {
		return history, err
	}

	history.Closes = make(map[string]map[string]decimal.Decimal)
	history.Benchmark = make(map[string]decimal.Decimal)
	seen := make(map[string]bool)
	for _, c := range closes {
		key := ledger.DateKey(c.CloseDate)
		if !seen[key] {
			seen[key] = true
			history.Dates = append(history.Dates, c.CloseDate)
		}
		if c.Symbol == h.benchmark {
			history.Benchmark[key] = c.Close
			continue
		}
		if history.Closes[c.Symbol] == nil {
			history.Closes[c.Symbol] = make(map[string]decimal.Decimal)
		}
		history.Closes[c.Symbol][key] = c.Close
	}
	sort.Slice(history.Dates, func(i, j int) bool { return history.Dates[i].Before(history.Dates[j]) })

	return history, nil
}

func transactionSymbols(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, tx := range txs {
		if !seen[tx.Symbol] {
			seen[tx.Symbol] = true
			symbols = append(symbols, tx.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

func pathUserID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["userID"])
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
