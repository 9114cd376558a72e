package models

import "github.com/shopspring/decimal"

// CreateAccountRequest creates a new account. AccountNumber is optional;
// when present it must be 10-12 digits (checked against AccountNumberPattern
// in the handler). Status is always forced to ACTIVE on creation.
type CreateAccountRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   AccountType     `json:"accountType" validate:"required,oneof=SAVINGS CHECKING"`
	CustomerID    int64           `json:"customerId" validate:"required,gt=0"`
}

// UpdateAccountRequest overwrites balance, type and status. Account number
// and owner are immutable after creation and deliberately absent here.
type UpdateAccountRequest struct {
	Balance     decimal.Decimal `json:"balance"`
	AccountType AccountType     `json:"accountType" validate:"required,oneof=SAVINGS CHECKING"`
	Status      AccountStatus   `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}
