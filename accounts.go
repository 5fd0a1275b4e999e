package tradebook

import (
	"errors"
	"fmt"
)

// AccountResolver answers whether an account exists.
//
// ResolveAccount returns the account, or an error wrapping ErrAccountNotFound.
// Implementations receive ids already trimmed by the Ledger and must not
// normalize them differently.
type AccountResolver interface {
	ResolveAccount(id string) (AccountSnapshot, error)
}

// AccountDirectory is the account service of a Store: it opens accounts and
// resolves them for a Ledger.
type AccountDirectory struct {
	store *Store
}

// NewAccountDirectory returns a directory over store.
func NewAccountDirectory(store *Store) *AccountDirectory {
	return &AccountDirectory{store: store}
}

// Open creates an account with an initial balance. An empty id is replaced by
// a random one.
func (d *AccountDirectory) Open(id string, initialBalance Number) (string, error) {
	return d.store.CreateAccount(id, initialBalance)
}

// ResolveAccount implements AccountResolver.
func (d *AccountDirectory) ResolveAccount(id string) (AccountSnapshot, error) {
	a, err := d.store.Account(id)
	if errors.Is(err, ErrRecordNotFound) {
		return AccountSnapshot{}, fmt.Errorf("account %q: %w", id, ErrAccountNotFound)
	}
	return a, err
}

// List returns all accounts sorted by id.
func (d *AccountDirectory) List() []AccountSnapshot { return d.store.Accounts() }
