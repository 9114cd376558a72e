package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/andesbank/accountms/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionService orchestrates deposit, withdraw and transfer. It is the
// only component that mutates account balances, and every mutation runs
// inside a single database transaction with row locks held for the whole
// read-check-write span.
type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Deposit credits amount to the account and returns the updated account.
func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin deposit: %w", err)
	}
	defer tx.Rollback()

	account, err := lockAccountByNumber(ctx, tx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := ValidateActive(account); err != nil {
		return nil, err
	}

	updated, err := applyBalanceChange(ctx, tx, account, account.Balance.Add(amount))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deposit: %w", err)
	}

	log.Printf("[DEPOSIT] account [%s] credited %s, balance %s", updated.AccountNumber, amount, updated.Balance)
	return updated, nil
}

// Withdraw debits amount from the account, enforcing the type-specific
// balance floor, and returns the updated account.
func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Account, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin withdrawal: %w", err)
	}
	defer tx.Rollback()

	account, err := lockAccountByNumber(ctx, tx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := ValidateActive(account); err != nil {
		return nil, err
	}
	if err := ValidateSufficientFunds(account, amount); err != nil {
		return nil, err
	}

	updated, err := applyBalanceChange(ctx, tx, account, account.Balance.Sub(amount))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit withdrawal: %w", err)
	}

	log.Printf("[WITHDRAW] account [%s] debited %s, balance %s", updated.AccountNumber, amount, updated.Balance)
	return updated, nil
}

// Transfer moves amount between two accounts as one all-or-nothing unit.
// Both rows are locked for the duration, so either both legs commit or
// neither is visible.
func (s *TransactionService) Transfer(ctx context.Context, originNumber, destinationNumber string, amount decimal.Decimal) (bool, error) {
	if err := ValidateAmount(amount); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	origin, destination, err := s.lockCounterparties(ctx, tx, originNumber, destinationNumber)
	if err != nil {
		return false, err
	}

	if err := ValidateCounterparty(origin, amount, RoleOrigin); err != nil {
		return false, err
	}
	if err := ValidateCounterparty(destination, decimal.Zero, RoleDestination); err != nil {
		return false, err
	}

	// Withdraw leg. The type-specific floor applies here regardless of the
	// counterparty pre-check above.
	if err := ValidateSufficientFunds(origin, amount); err != nil {
		return false, err
	}
	debited, err := applyBalanceChange(ctx, tx, origin, origin.Balance.Sub(amount))
	if err != nil {
		return false, err
	}

	// Deposit leg. A self-transfer reuses the debited row.
	if destination.ID == origin.ID {
		destination = debited
	}
	if _, err := applyBalanceChange(ctx, tx, destination, destination.Balance.Add(amount)); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transfer: %w", err)
	}

	log.Printf("[TRANSFER] %s moved from account [%s] to account [%s]", amount, originNumber, destinationNumber)
	return true, nil
}

// lockCounterparties resolves and locks both transfer accounts. Rows are
// locked in account-number order to prevent deadlocks between concurrent
// opposite-direction transfers.
func (s *TransactionService) lockCounterparties(ctx context.Context, tx *sql.Tx, originNumber, destinationNumber string) (*models.Account, *models.Account, error) {
	if originNumber == destinationNumber {
		account, err := lockAccountByNumber(ctx, tx, originNumber)
		if err != nil {
			return nil, nil, counterpartyNotFound(err, RoleOrigin, originNumber)
		}
		return account, account, nil
	}

	first, firstRole := originNumber, RoleOrigin
	second, secondRole := destinationNumber, RoleDestination
	if first > second {
		first, second = second, first
		firstRole, secondRole = secondRole, firstRole
	}

	firstAccount, err := lockAccountByNumber(ctx, tx, first)
	if err != nil {
		return nil, nil, counterpartyNotFound(err, firstRole, first)
	}
	secondAccount, err := lockAccountByNumber(ctx, tx, second)
	if err != nil {
		return nil, nil, counterpartyNotFound(err, secondRole, second)
	}

	if firstRole == RoleOrigin {
		return firstAccount, secondAccount, nil
	}
	return secondAccount, firstAccount, nil
}

func counterpartyNotFound(err error, role, accountNumber string) error {
	if errors.Is(err, ErrAccountNotFound) {
		return &CounterpartyError{Role: role, AccountNumber: accountNumber, Err: ErrAccountNotFound}
	}
	return err
}
