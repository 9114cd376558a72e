package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andesbank/accountms/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, balance, account_type, customer_id, status, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Balance,
		&account.AccountType,
		&account.CustomerID,
		&account.Status,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// lockAccountByNumber reads an account row inside tx and holds a row lock
// until the transaction ends, so the read-check-write span is atomic with
// respect to other mutations on the same account.
func lockAccountByNumber(ctx context.Context, tx *sql.Tx, accountNumber string) (*models.Account, error) {
	account, err := scanAccount(tx.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE`, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: [%s]", ErrAccountNotFound, accountNumber)
		}
		return nil, fmt.Errorf("lock account [%s]: %w", accountNumber, err)
	}
	return account, nil
}

func lockAccountByID(ctx context.Context, tx *sql.Tx, id int64) (*models.Account, error) {
	account, err := scanAccount(tx.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("lock account %d: %w", id, err)
	}
	return account, nil
}

// applyBalanceChange persists a new balance with the version check as a
// backstop against writes that slipped past the row lock. It returns a
// fresh account value rather than mutating the input.
func applyBalanceChange(ctx context.Context, tx *sql.Tx, account *models.Account, newBalance decimal.Decimal) (*models.Account, error) {
	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
		newBalance, now, account.ID, account.Version)
	if err != nil {
		return nil, fmt.Errorf("update balance for account [%s]: %w", account.AccountNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("optimistic lock failed for account [%s]", account.AccountNumber)
	}

	updated := *account
	updated.Balance = newBalance
	updated.Version++
	updated.UpdatedAt = now
	return &updated, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
