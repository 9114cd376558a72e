package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/andesbank/accountms/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionEngine is the money-movement surface the handler consumes.
type TransactionEngine interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error)
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error)
	Transfer(ctx context.Context, originNumber, destinationNumber string, amount decimal.Decimal) (bool, error)
}

type TransactionHandler struct {
	service TransactionEngine
}

func NewTransactionHandler(service TransactionEngine) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Deposit credits an account
// @Summary Deposit into an account
// @Tags transactions
// @Produce json
// @Param accountNumber query string true "Account number"
// @Param amount query number true "Amount, must be greater than 0"
// @Success 200 {object} ApiResponse
// @Failure 400 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/deposit [put]
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountNumber, amount, ok := amountParams(w, r)
	if !ok {
		return
	}
	account, err := h.service.Deposit(r.Context(), accountNumber, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Deposit completed successfully", account)
}

// Withdraw debits an account
// @Summary Withdraw from an account
// @Tags transactions
// @Produce json
// @Param accountNumber query string true "Account number"
// @Param amount query number true "Amount, must be greater than 0"
// @Success 200 {object} ApiResponse
// @Failure 400 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/withdraw [put]
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountNumber, amount, ok := amountParams(w, r)
	if !ok {
		return
	}
	account, err := h.service.Withdraw(r.Context(), accountNumber, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Withdrawal completed successfully", account)
}

// Transfer moves money between two accounts
// @Summary Transfer between accounts
// @Tags transactions
// @Produce json
// @Param origin query string true "Origin account number"
// @Param destination query string true "Destination account number"
// @Param amount query number true "Amount, must be greater than 0"
// @Success 200 {object} ApiResponse
// @Failure 400 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/transfer [put]
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if origin == "" || destination == "" {
		writeResponse(w, http.StatusBadRequest, "origin and destination are required", nil)
		return
	}
	amount, ok := parseAmount(w, r)
	if !ok {
		return
	}

	completed, err := h.service.Transfer(r.Context(), origin, destination, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Transfer completed successfully", completed)
}

func amountParams(w http.ResponseWriter, r *http.Request) (string, decimal.Decimal, bool) {
	accountNumber := strings.TrimSpace(r.URL.Query().Get("accountNumber"))
	if accountNumber == "" {
		writeResponse(w, http.StatusBadRequest, "accountNumber is required", nil)
		return "", decimal.Decimal{}, false
	}
	amount, ok := parseAmount(w, r)
	if !ok {
		return "", decimal.Decimal{}, false
	}
	return accountNumber, amount, true
}

func parseAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, "the value '"+raw+"' is not valid for parameter 'amount'", nil)
		return decimal.Decimal{}, false
	}
	return amount, true
}
