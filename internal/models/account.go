package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// Account is the stored entity. Services treat it as a value: balance
// changes produce a new Account that is persisted with a version check.
type Account struct {
	ID            int64           `json:"id" db:"id"`
	AccountNumber string          `json:"accountNumber" db:"account_number"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	AccountType   AccountType     `json:"accountType" db:"account_type"`
	CustomerID    int64           `json:"customerId" db:"customer_id"`
	Status        AccountStatus   `json:"status" db:"status"`
	Version       int             `json:"-" db:"version"` // for optimistic locking
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
