package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/andesbank/accountms/internal/models"
)

// CustomerValidator confirms that an account owner exists. Implemented by
// the customer-ms HTTP client; lookup failures and missing customers
// surface as distinct errors.
type CustomerValidator interface {
	FetchCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

// AccountService manages the account lifecycle: creation, update, deletion
// and queries. It never moves money.
type AccountService struct {
	db        *sql.DB
	customers CustomerValidator
}

const maxAllocationAttempts = 3

func NewAccountService(db *sql.DB, customers CustomerValidator) *AccountService {
	return &AccountService{db: db, customers: customers}
}

// Create validates the owner, ensures account-number uniqueness and
// persists the new account. Status is forced to ACTIVE regardless of input.
// When no account number is supplied one is generated, retrying on the
// unlikely uniqueness conflict.
func (s *AccountService) Create(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	if _, err := s.customers.FetchCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	account := &models.Account{
		AccountNumber: req.AccountNumber,
		Balance:       req.Balance,
		AccountType:   req.AccountType,
		CustomerID:    req.CustomerID,
		Status:        models.AccountStatusActive,
	}

	if account.AccountNumber != "" {
		exists, err := s.numberExists(ctx, account.AccountNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: [%s]", ErrAccountAlreadyExists, account.AccountNumber)
		}
		created, err := s.insert(ctx, account)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: [%s]", ErrAccountAlreadyExists, account.AccountNumber)
		}
		return created, err
	}

	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		account.AccountNumber = GenerateAccountNumber()
		created, err := s.insert(ctx, account)
		if isUniqueViolation(err) {
			log.Printf("[ACCOUNT] generated number [%s] collided, attempt %d/%d", account.AccountNumber, attempt, maxAllocationAttempts)
			continue
		}
		return created, err
	}
	return nil, fmt.Errorf("could not allocate a unique account number after %d attempts", maxAllocationAttempts)
}

// Update overwrites balance, type and status. Account number and owner are
// immutable and untouched.
func (s *AccountService) Update(ctx context.Context, id int64, req models.UpdateAccountRequest) (*models.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin account update: %w", err)
	}
	defer tx.Rollback()

	account, err := lockAccountByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, account_type = $2, status = $3, version = version + 1, updated_at = $4
		WHERE id = $5 AND version = $6`,
		req.Balance, req.AccountType, req.Status, now, account.ID, account.Version)
	if err != nil {
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("optimistic lock failed for account [%s]", account.AccountNumber)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit account update: %w", err)
	}

	updated := *account
	updated.Balance = req.Balance
	updated.AccountType = req.AccountType
	updated.Status = req.Status
	updated.Version++
	updated.UpdatedAt = now
	log.Printf("[ACCOUNT] account %d updated", id)
	return &updated, nil
}

// Delete removes the account, failing when it does not exist.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}
	log.Printf("[ACCOUNT] account %d deleted", id)
	return nil
}

// GetByID fetches one account.
func (s *AccountService) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("fetch account %d: %w", id, err)
	}
	return account, nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListByCustomer returns every account owned by the customer.
func (s *AccountService) ListByCustomer(ctx context.Context, customerID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE customer_id = $1
		ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts for customer %d: %w", customerID, err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]models.Account, error) {
	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *AccountService) numberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM accounts
			WHERE account_number = $1
		)`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account number [%s]: %w", accountNumber, err)
	}
	return exists, nil
}

func (s *AccountService) insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	created := *account
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (account_number, balance, account_type, customer_id, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		account.AccountNumber, account.Balance, account.AccountType, account.CustomerID, account.Status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	log.Printf("[ACCOUNT] account [%s] created for customer %d", created.AccountNumber, created.CustomerID)
	return &created, nil
}
