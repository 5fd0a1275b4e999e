package tradebook

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Store is a thread-safe in-memory repository of accounts, holdings and
// transactions.
//
// The store has no business rules: it normalizes identifiers and numbers but
// never rounds amounts nor checks their sign. Every exported method is atomic.
// Methods lock the store once and then only use unexported helpers, which
// assume the lock is held.
type Store struct {
	mu       sync.Mutex
	accounts map[string]decimal.Decimal
	holdings holdings
	log      journal
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]decimal.Decimal),
		holdings: make(holdings),
	}
}

// TransactionInput holds the fields of a transaction to add to the store.
// Zero ID and Timestamp are replaced by a random id and the current time.
// Zero Quantity, Price and Total are left unset.
type TransactionInput struct {
	ID        string
	AccountID string
	Kind      string
	Timestamp time.Time
	Amount    Number
	Symbol    string
	Quantity  Number
	Price     Number
	Total     Number
}

// --- Accounts ---

// CreateAccount creates an account with an initial balance and returns its id.
// An empty id is replaced by a random one.
func (s *Store) CreateAccount(id string, initialBalance Number) (string, error) {
	acc := newID()
	if id != "" {
		var err error
		if acc, err = normalizeAccountID(id); err != nil {
			return "", err
		}
	}
	if initialBalance.IsZero() {
		initialBalance = Int(0)
	}
	balance, err := Normalize(initialBalance)
	if err != nil {
		return "", invalid("initial balance", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acc]; exists {
		return "", fmt.Errorf("account %q: %w", acc, ErrDuplicateRecord)
	}
	s.accounts[acc] = balance
	return acc, nil
}

// Account returns a snapshot of the account.
func (s *Store) Account(id string) (AccountSnapshot, error) {
	acc, err := normalizeAccountID(id)
	if err != nil {
		return AccountSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return AccountSnapshot{}, err
	}
	return AccountSnapshot{ID: acc, Balance: s.accounts[acc]}, nil
}

// Balance returns the current balance of the account.
func (s *Store) Balance(id string) (decimal.Decimal, error) {
	a, err := s.Account(id)
	return a.Balance, err
}

// SetBalance overwrites the account balance and returns the stored value.
func (s *Store) SetBalance(id string, value Number) (decimal.Decimal, error) {
	acc, bal, err := normalizeAccountValue(id, "balance", value)
	if err != nil {
		return decimal.Zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return decimal.Zero, err
	}
	s.accounts[acc] = bal
	return bal, nil
}

// UpdateBalance adds delta to the account balance and returns the new balance.
func (s *Store) UpdateBalance(id string, delta Number) (decimal.Decimal, error) {
	acc, d, err := normalizeAccountValue(id, "delta", delta)
	if err != nil {
		return decimal.Zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return decimal.Zero, err
	}
	bal := s.accounts[acc].Add(d)
	s.accounts[acc] = bal
	return bal, nil
}

// Accounts returns a snapshot of all accounts sorted by id.
func (s *Store) Accounts() []AccountSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]AccountSnapshot, 0, len(s.accounts))
	for id, bal := range s.accounts {
		result = append(result, AccountSnapshot{ID: id, Balance: bal})
	}
	slices.SortFunc(result, func(a, b AccountSnapshot) int { return strings.Compare(a.ID, b.ID) })
	return result
}

// --- Holdings ---

// Holdings returns a copy of the account positions by symbol.
func (s *Store) Holdings(id string) (map[string]decimal.Decimal, error) {
	acc, err := normalizeAccountID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return nil, err
	}
	return s.holdings.snapshot(acc), nil
}

// Position returns the quantity of symbol held by the account, zero if none.
func (s *Store) Position(id, symbol string) (decimal.Decimal, error) {
	acc, sym, err := normalizeAccountSymbol(id, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return decimal.Zero, err
	}
	return s.holdings.position(acc, sym), nil
}

// SetPosition replaces the quantity of symbol held by the account. A zero
// quantity removes the position.
func (s *Store) SetPosition(id, symbol string, quantity Number) (decimal.Decimal, error) {
	acc, sym, err := normalizeAccountSymbol(id, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	qty, err := Normalize(quantity)
	if err != nil {
		return decimal.Zero, invalid("quantity", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return decimal.Zero, err
	}
	return s.holdings.set(acc, sym, qty), nil
}

// AdjustPosition adds delta to the quantity of symbol held by the account and
// returns the new quantity. A position reaching zero is removed.
func (s *Store) AdjustPosition(id, symbol string, delta Number) (decimal.Decimal, error) {
	acc, sym, err := normalizeAccountSymbol(id, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := Normalize(delta)
	if err != nil {
		return decimal.Zero, invalid("delta", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(acc); err != nil {
		return decimal.Zero, err
	}
	return s.holdings.adjust(acc, sym, d), nil
}

// --- Transactions ---

// AddTransaction appends a transaction record and returns its id.
//
// Fields are normalized but no business rule is applied: the sign of the
// amount or the consistency of the total are the caller's concern.
func (s *Store) AddTransaction(in TransactionInput) (string, error) {
	rec, err := in.record()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(rec.accountID); err != nil {
		return "", err
	}
	s.log.append(rec)
	return rec.id, nil
}

// Post appends a record built by a Ledger and applies it to the account: the
// amount is added to the balance, and the quantity of a trade is added to
// (BUY) or removed from (SELL) the position. Nothing is changed when the
// account does not exist.
func (s *Store) Post(rec TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exists(rec.accountID); err != nil {
		return err
	}
	s.accounts[rec.accountID] = s.accounts[rec.accountID].Add(rec.amount)
	if qty, ok := rec.Quantity(); ok && rec.kind.IsTrade() {
		if rec.kind == Sell {
			qty = qty.Neg()
		}
		s.holdings.adjust(rec.accountID, rec.symbol, qty)
	}
	s.log.append(rec)
	return nil
}

// Transactions lists the records matching f in insertion order. Filtering on
// an account that does not exist is an error.
func (s *Store) Transactions(f Filter) ([]TransactionRecord, error) {
	c, err := f.normalize()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.account != "" {
		if err := s.exists(c.account); err != nil {
			return nil, err
		}
	}
	return s.log.filter(c), nil
}

// AccountTransactions lists the records of one account.
func (s *Store) AccountTransactions(id string, f Filter) ([]TransactionRecord, error) {
	f.AccountID = id
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: account id must be a non-empty string", ErrInvalidAccountID)
	}
	return s.Transactions(f)
}

// exists must be called with the lock held.
func (s *Store) exists(acc string) error {
	if _, ok := s.accounts[acc]; !ok {
		return fmt.Errorf("account %q: %w", acc, ErrRecordNotFound)
	}
	return nil
}

// record normalizes the input into a record.
func (in TransactionInput) record() (TransactionRecord, error) {
	acc, err := normalizeAccountID(in.AccountID)
	if err != nil {
		return TransactionRecord{}, err
	}
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return TransactionRecord{}, err
	}
	amount, err := Normalize(in.Amount)
	if err != nil {
		return TransactionRecord{}, invalid("amount", err)
	}
	rec := TransactionRecord{
		id:        in.ID,
		accountID: acc,
		kind:      kind,
		timestamp: utc(in.Timestamp),
		amount:    amount,
	}
	if rec.id == "" {
		rec.id = newID()
	}
	if in.Symbol != "" {
		if rec.symbol, err = normalizeSymbol(in.Symbol); err != nil {
			return TransactionRecord{}, err
		}
	}
	for _, opt := range []struct {
		field string
		in    Number
		out   **decimal.Decimal
	}{
		{"quantity", in.Quantity, &rec.quantity},
		{"price", in.Price, &rec.price},
		{"total", in.Total, &rec.total},
	} {
		if opt.in.IsZero() {
			continue
		}
		d, err := Normalize(opt.in)
		if err != nil {
			return TransactionRecord{}, invalid(opt.field, err)
		}
		*opt.out = ptr(d)
	}
	return rec, nil
}

func normalizeAccountValue(id, field string, value Number) (string, decimal.Decimal, error) {
	acc, err := normalizeAccountID(id)
	if err != nil {
		return "", decimal.Zero, err
	}
	d, err := Normalize(value)
	if err != nil {
		return "", decimal.Zero, invalid(field, err)
	}
	return acc, d, nil
}

func normalizeAccountSymbol(id, symbol string) (string, string, error) {
	acc, err := normalizeAccountID(id)
	if err != nil {
		return "", "", err
	}
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return "", "", err
	}
	return acc, sym, nil
}
