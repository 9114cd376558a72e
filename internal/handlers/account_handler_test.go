package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andesbank/accountms/internal/clients"
	"github.com/andesbank/accountms/internal/models"
	"github.com/andesbank/accountms/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Create(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAccountService) Update(ctx context.Context, id int64, req models.UpdateAccountRequest) (*models.Account, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAccountService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountService) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAccountService) List(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *mockAccountService) ListByCustomer(ctx context.Context, customerID int64) ([]models.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

type mockTransactionEngine struct {
	mock.Mock
}

func (m *mockTransactionEngine) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockTransactionEngine) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockTransactionEngine) Transfer(ctx context.Context, originNumber, destinationNumber string, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, originNumber, destinationNumber, amount)
	return args.Bool(0), args.Error(1)
}

func newTestRouter(accounts AccountService, transactions TransactionEngine) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, NewAccountHandler(accounts), NewTransactionHandler(transactions))
	return r
}

func doRequest(t *testing.T, router chi.Router, method, target, body string) (*httptest.ResponseRecorder, ApiResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func decimalEqual(expected int64) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(expected))
	})
}

func sampleAccount() *models.Account {
	return &models.Account{
		ID:            10,
		AccountNumber: "1234567890",
		Balance:       decimal.NewFromInt(1000),
		AccountType:   models.AccountTypeSavings,
		CustomerID:    7,
		Status:        models.AccountStatusActive,
		Version:       1,
	}
}

func TestCreateAccount(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Create", mock.Anything, mock.MatchedBy(func(req models.CreateAccountRequest) bool {
			return req.AccountNumber == "1234567890" &&
				req.Balance.Equal(decimal.NewFromInt(1000)) &&
				req.AccountType == models.AccountTypeSavings &&
				req.CustomerID == 7
		})).Return(sampleAccount(), nil)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodPost, "/accounts",
			`{"accountNumber":"1234567890","balance":1000,"accountType":"SAVINGS","customerId":7}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Account created successfully", envelope.Message)
		assert.NotNil(t, envelope.Data)
		service.AssertExpectations(t)
	})

	t.Run("missing account type fails validation", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodPost, "/accounts",
			`{"balance":1000,"customerId":7}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", envelope.Message)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed account number", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPost, "/accounts",
			`{"accountNumber":"12345","balance":0,"accountType":"SAVINGS","customerId":7}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("negative initial balance", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPost, "/accounts",
			`{"balance":-100,"accountType":"SAVINGS","customerId":7}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate account number", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrAccountAlreadyExists)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPost, "/accounts",
			`{"accountNumber":"1234567890","balance":0,"accountType":"SAVINGS","customerId":7}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Create", mock.Anything, mock.Anything).Return(nil, clients.ErrCustomerNotFound)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPost, "/accounts",
			`{"balance":0,"accountType":"CHECKING","customerId":99}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("customer service down", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Create", mock.Anything, mock.Anything).Return(nil, clients.ErrCustomerLookupFailed)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodPost, "/accounts",
			`{"balance":0,"accountType":"CHECKING","customerId":7}`)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "customer service is unavailable, please try again later", envelope.Message)
	})

	t.Run("unknown json field is rejected", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPost, "/accounts",
			`{"balance":0,"accountType":"SAVINGS","customerId":7,"status":"INACTIVE"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetAccount(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("GetByID", mock.Anything, int64(10)).Return(sampleAccount(), nil)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodGet, "/accounts/10", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Account retrieved successfully", envelope.Message)
	})

	t.Run("not found", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("GetByID", mock.Anything, int64(99)).Return(nil, services.ErrAccountNotFound)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodGet, "/accounts/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodGet, "/accounts/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "the value 'abc' is not valid for parameter 'accountId'", envelope.Message)
		service.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Update", mock.Anything, int64(10), mock.MatchedBy(func(req models.UpdateAccountRequest) bool {
			return req.Balance.Equal(decimal.NewFromInt(2000)) &&
				req.AccountType == models.AccountTypeChecking &&
				req.Status == models.AccountStatusInactive
		})).Return(sampleAccount(), nil)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodPut, "/accounts/10",
			`{"balance":2000,"accountType":"CHECKING","status":"INACTIVE"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Account updated successfully", envelope.Message)
		service.AssertExpectations(t)
	})

	t.Run("invalid status fails validation", func(t *testing.T) {
		service := new(mockAccountService)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodPut, "/accounts/10",
			`{"balance":2000,"accountType":"CHECKING","status":"FROZEN"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Delete", mock.Anything, int64(10)).Return(nil)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, envelope := doRequest(t, router, http.MethodDelete, "/accounts/10", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Account deleted successfully", envelope.Message)
	})

	t.Run("not found", func(t *testing.T) {
		service := new(mockAccountService)
		service.On("Delete", mock.Anything, int64(99)).Return(services.ErrAccountNotFound)
		router := newTestRouter(service, new(mockTransactionEngine))

		rec, _ := doRequest(t, router, http.MethodDelete, "/accounts/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListCustomerAccounts(t *testing.T) {
	service := new(mockAccountService)
	service.On("ListByCustomer", mock.Anything, int64(7)).Return([]models.Account{*sampleAccount()}, nil)
	router := newTestRouter(service, new(mockTransactionEngine))

	rec, envelope := doRequest(t, router, http.MethodGet, "/accounts/customer/7", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Customer accounts retrieved successfully", envelope.Message)
	assert.NotNil(t, envelope.Data)
}
