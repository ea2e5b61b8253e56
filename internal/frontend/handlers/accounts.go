package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

// AccountStore defines the account operations the login flow needs.
type AccountStore interface {
	Create(ctx context.Context, username, password string) (postgres.Account, error)
	Authenticate(ctx context.Context, username, password string) (postgres.Account, error)
}

// MemoryAccounts is an in-process AccountStore for the development server.
// Passwords are bcrypt-hashed exactly as the PostgreSQL repository does.
type MemoryAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]postgres.Account
}

// NewMemoryAccounts returns an empty MemoryAccounts.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]postgres.Account)}
}

// Create implements AccountStore.
func (m *MemoryAccounts) Create(_ context.Context, username, password string) (postgres.Account, error) {
	hash, err := postgres.HashPassword(password)
	if err != nil {
		return postgres.Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[username]; exists {
		return postgres.Account{}, postgres.ErrAccountExists
	}
	m.nextID++
	acct := postgres.Account{
		ID:           m.nextID,
		Username:     username,
		PasswordHash: hash,
		PlayerID:     uuid.New(),
		CreatedAt:    time.Now(),
	}
	m.accounts[username] = acct
	return acct, nil
}

// Authenticate implements AccountStore.
func (m *MemoryAccounts) Authenticate(_ context.Context, username, password string) (postgres.Account, error) {
	m.mu.Lock()
	acct, ok := m.accounts[username]
	m.mu.Unlock()
	if !ok {
		return postgres.Account{}, postgres.ErrAccountNotFound
	}
	if !postgres.CheckPassword(password, acct.PasswordHash) {
		return postgres.Account{}, postgres.ErrInvalidCredentials
	}
	return acct, nil
}
