package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/signet/signet/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
)

// CreateAccount inserts a new account, assigning its identifier and
// audit fields. The UNIQUE constraint on accounts.email is the
// authoritative duplicate check; a violation surfaces as ErrEmailExists.
func (r *Repository) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	now := time.Now().UTC()

	account.ID = uuid.New().String()
	account.CreatedAt = now
	account.LastUpdatedAt = now
	account.Version = 1

	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, email_verified, password_changed_at, created_at, last_updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.EmailVerified,
		account.PasswordChangedAt,
		account.CreatedAt,
		account.LastUpdatedAt,
		account.Version,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetAccountByEmail retrieves an account by its email address.
// Absence is a normal outcome and returns (nil, nil); only genuine
// I/O faults return an error. Emails are matched case-sensitively.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, email_verified, password_changed_at, created_at, last_updated_at, version
		FROM accounts
		WHERE email = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, email_verified, password_changed_at, created_at, last_updated_at, version
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.EmailVerified,
		&account.PasswordChangedAt,
		&account.CreatedAt,
		&account.LastUpdatedAt,
		&account.Version,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
