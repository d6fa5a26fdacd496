package service

import (
	"sync"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
)

// AccountStore holds account balances for transfer sagas. Every mutation
// goes through Move so the invariant checked here (no overdraft) is the only
// way funds change hands.
type AccountStore struct {
	mu       sync.Mutex
	balances map[string]int64
}

// NewAccountStore creates an account store seeded with the given balances.
func NewAccountStore(seed map[string]int64) *AccountStore {
	balances := make(map[string]int64, len(seed))
	for name, amount := range seed {
		balances[name] = amount
	}
	return &AccountStore{balances: balances}
}

// SetBalance creates or overwrites an account balance.
func (a *AccountStore) SetBalance(name string, amount int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances[name] = amount
}

// Balance returns the account balance, false when the account is unknown.
func (a *AccountStore) Balance(name string) (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	amount, ok := a.balances[name]
	return amount, ok
}

// Move transfers amount from one account to another. The destination account
// is created when absent; the source must exist and cover the amount, or the
// move fails with a storage-category error and no balance changes.
func (a *AccountStore) Move(from, to string, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	have, ok := a.balances[from]
	if !ok {
		return disterrors.Storagef("unknown account %q", from)
	}
	if have < amount {
		return disterrors.Storagef("insufficient funds in %q: have %d, need %d", from, have, amount)
	}

	a.balances[from] = have - amount
	a.balances[to] += amount
	return nil
}
