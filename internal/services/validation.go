package services

import (
	"fmt"
	"regexp"

	"github.com/andesbank/accountms/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// checkingOverdraftFloor is the most negative balance a CHECKING account
// may reach.
var checkingOverdraftFloor = decimal.NewFromInt(-500)

const (
	RoleOrigin      = "origin"
	RoleDestination = "destination"
)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10,12}$`)

// IsValidAccountNumber reports whether a client-supplied account number has
// the required 10-12 digit format.
func IsValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateActive gates every balance mutation on account status.
func ValidateActive(account *models.Account) error {
	if account.Status != models.AccountStatusActive {
		return ErrInactiveAccount
	}
	return nil
}

// ValidateSufficientFunds applies the type-specific balance floor: SAVINGS
// may never go below zero, CHECKING may overdraw down to the floor.
func ValidateSufficientFunds(account *models.Account, amount decimal.Decimal) error {
	switch account.AccountType {
	case models.AccountTypeSavings:
		if account.Balance.LessThan(amount) {
			return fmt.Errorf("%w: savings account [%s]", ErrInsufficientFunds, account.AccountNumber)
		}
	case models.AccountTypeChecking:
		if account.Balance.Sub(amount).LessThan(checkingOverdraftFloor) {
			return fmt.Errorf("%w: overdraft limit reached on checking account [%s]", ErrInsufficientFunds, account.AccountNumber)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAccountType, account.AccountType)
	}
	return nil
}

// ValidateCounterparty checks one resolved side of a transfer. The account
// must be ACTIVE, and a SAVINGS origin must additionally cover the amount.
// The funds pre-check is intentionally limited to the savings rule; the
// withdraw leg enforces the type-specific floor for every origin type.
func ValidateCounterparty(account *models.Account, amount decimal.Decimal, role string) error {
	if account.Status != models.AccountStatusActive {
		return &CounterpartyError{Role: role, AccountNumber: account.AccountNumber, Err: ErrInactiveAccount}
	}
	if role == RoleOrigin && account.AccountType == models.AccountTypeSavings && account.Balance.LessThan(amount) {
		return &CounterpartyError{Role: role, AccountNumber: account.AccountNumber, Err: ErrInsufficientFunds}
	}
	return nil
}

// ValidationHelper provides shared request validation functionality.
type ValidationHelper struct {
	validator *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}
