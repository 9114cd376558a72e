package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/andesbank/accountms/internal/models"
	"github.com/andesbank/accountms/internal/services"
	"github.com/go-chi/chi/v5"
)

// AccountService is the lifecycle surface the handler consumes.
type AccountService interface {
	Create(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	Update(ctx context.Context, id int64, req models.UpdateAccountRequest) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Account, error)
}

type AccountHandler struct {
	service   AccountService
	validator *services.ValidationHelper
}

func NewAccountHandler(service AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// CreateAccount creates a new account
// @Summary Create account
// @Description Create an account for an existing customer, generating an account number when none is supplied
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body models.CreateAccountRequest true "Account data"
// @Success 201 {object} ApiResponse
// @Failure 400 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.AccountNumber != "" && !services.IsValidAccountNumber(req.AccountNumber) {
		writeResponse(w, http.StatusBadRequest, "account number must be 10 to 12 digits", nil)
		return
	}
	if req.Balance.IsNegative() {
		writeResponse(w, http.StatusBadRequest, "initial balance must be greater than or equal to 0", nil)
		return
	}

	account, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusCreated, "Account created successfully", account)
}

// GetAccount retrieves an account by id
// @Summary Get account by ID
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}
	account, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Account retrieved successfully", account)
}

// ListAccounts retrieves every account
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Accounts retrieved successfully", accounts)
}

// ListCustomerAccounts retrieves the accounts owned by a customer
// @Summary List accounts by customer
// @Tags accounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} ApiResponse
// @Router /accounts/customer/{customerId} [get]
func (h *AccountHandler) ListCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerId")
	if !ok {
		return
	}
	accounts, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Customer accounts retrieved successfully", accounts)
}

// UpdateAccount overwrites balance, type and status
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountId path int true "Account ID"
// @Param account body models.UpdateAccountRequest true "Account data"
// @Success 200 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/{accountId} [put]
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	var req models.UpdateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.Balance.IsNegative() {
		writeResponse(w, http.StatusBadRequest, "balance must be greater than or equal to 0", nil)
		return
	}

	account, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Account updated successfully", account)
}

// DeleteAccount removes an account
// @Summary Delete account
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} ApiResponse
// @Failure 404 {object} ApiResponse
// @Router /accounts/{accountId} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeResponse(w, http.StatusOK, "Account deleted successfully", nil)
}

// decodeBody applies the shared request-decoding rules: bounded body size,
// unknown fields rejected, exactly one JSON object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeResponse(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeResponse(w, http.StatusBadRequest, "Request body must only contain a single JSON object", nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, "the value '"+raw+"' is not valid for parameter '"+param+"'", nil)
		return 0, false
	}
	return id, true
}
