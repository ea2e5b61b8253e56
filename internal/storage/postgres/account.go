package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Account is a login that owns exactly one player profile.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	PlayerID     uuid.UUID
	CreatedAt    time.Time
}

var (
	// ErrAccountNotFound is returned when an account lookup yields no results.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when attempting to create a duplicate username.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountRepository provides account persistence operations.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates an AccountRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, password_hash, player_id, created_at`

func scanAccount(row pgx.Row) (Account, error) {
	var acct Account
	err := row.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.PlayerID, &acct.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("scanning account: %w", err)
	}
	return acct, nil
}

// Create inserts a new account with a bcrypt-hashed password and a fresh
// player ID. The player profile itself is created on first login.
//
// Precondition: username must be non-empty; password must be non-empty.
// Postcondition: Returns the created Account or ErrAccountExists if the
// username is taken.
func (r *AccountRepository) Create(ctx context.Context, username, password string) (Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, fmt.Errorf("hashing password: %w", err)
	}

	acct, err := scanAccount(r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash, player_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+accountColumns,
		username, hash, uuid.New(),
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return Account{}, ErrAccountExists
		}
		return Account{}, fmt.Errorf("inserting account: %w", err)
	}
	return acct, nil
}

// Authenticate verifies credentials and returns the matching account.
//
// Postcondition: Returns ErrAccountNotFound for an unknown username and
// ErrInvalidCredentials for a wrong password.
func (r *AccountRepository) Authenticate(ctx context.Context, username, password string) (Account, error) {
	acct, err := r.GetByUsername(ctx, username)
	if err != nil {
		return Account{}, err
	}
	if !CheckPassword(password, acct.PasswordHash) {
		return Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

// GetByUsername retrieves an account by username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`,
		username,
	))
}

// ChangePassword replaces the stored hash after verifying the old password.
func (r *AccountRepository) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	acct, err := r.Authenticate(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if _, err := r.db.Exec(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, hash, acct.ID); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// HashPassword creates a bcrypt hash of the given password.
//
// Precondition: password must be non-empty and at most 72 bytes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// isDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
