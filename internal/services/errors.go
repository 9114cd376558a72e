package services

import (
	"errors"
	"fmt"
)

// Error kinds raised by the account engine. Handlers map these to HTTP
// statuses; anything outside this set is an internal failure and is
// surfaced generically.
var (
	ErrInvalidAmount          = errors.New("amount must be greater than 0")
	ErrInactiveAccount        = errors.New("transactions are not allowed on accounts that are not ACTIVE")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountAlreadyExists   = errors.New("account already exists")
	ErrUnsupportedAccountType = errors.New("unsupported account type")
)

// CounterpartyError identifies which side of a transfer failed validation.
type CounterpartyError struct {
	Role          string // "origin" or "destination"
	AccountNumber string
	Err           error
}

func (e *CounterpartyError) Error() string {
	return fmt.Sprintf("transfer failed: %s account [%s]: %v", e.Role, e.AccountNumber, e.Err)
}

func (e *CounterpartyError) Unwrap() error {
	return e.Err
}
