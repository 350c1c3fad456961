package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of the bank, account and transaction repositories.
// It is safe for concurrent use. Data is lost on restart; use the pgsql or sqlite
// store for persistence.
//
// Every write runs under the store's write lock, so the find-then-write of a
// transaction save is serialized for all grouping keys at once.
type Store struct {
	mu           sync.RWMutex
	banks        map[int64]domain.Bank
	accounts     map[int64]domain.Account
	transactions map[int64]domain.Transaction

	nextBankID        int64
	nextAccountID     int64
	nextTransactionID int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		banks:        make(map[int64]domain.Bank),
		accounts:     make(map[int64]domain.Account),
		transactions: make(map[int64]domain.Transaction),
	}
}

// NewRepositoryProvider exposes a single store through all repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BankRepo:        store,
		AccountRepo:     store,
		TransactionRepo: store,
		Close:           func() {},
	}
}

var (
	_ portsrepo.BankRepositoryFacade        = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
)

func errNameTaken() error {
	return fmt.Errorf("%w: name has already been taken", apperrors.ErrDuplicate)
}

// sortedValues returns the map's values ordered by key.
func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	keys := make([]int64, 0, len(m))
	for k, v := range m {
		if keep == nil || keep(v) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// --- banks ---

func (s *Store) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.banks, nil), nil
}

func (s *Store) FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bank, ok := s.banks[bankID]
	if !ok {
		return nil, apperrors.NotFound("Bank")
	}
	return &bank, nil
}

func (s *Store) bankNameTaken(name string, exceptID int64) bool {
	for id, b := range s.banks {
		if id != exceptID && b.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) SaveBank(ctx context.Context, bank domain.Bank) (*domain.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bankNameTaken(bank.Name, 0) {
		return nil, errNameTaken()
	}
	s.nextBankID++
	bank.BankID = s.nextBankID
	s.banks[bank.BankID] = bank
	return &bank, nil
}

func (s *Store) UpdateBank(ctx context.Context, bank domain.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.banks[bank.BankID]
	if !ok {
		return apperrors.NotFound("Bank")
	}
	if s.bankNameTaken(bank.Name, bank.BankID) {
		return errNameTaken()
	}
	existing.Name = bank.Name
	existing.UpdatedAt = bank.UpdatedAt
	s.banks[bank.BankID] = existing
	return nil
}

func (s *Store) DeleteBank(ctx context.Context, bankID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banks[bankID]; !ok {
		return apperrors.NotFound("Bank")
	}
	for _, a := range s.accounts {
		if a.BankID == bankID {
			return fmt.Errorf("%w: bank %d still has accounts", apperrors.ErrHasDependents, bankID)
		}
	}
	delete(s.banks, bankID)
	return nil
}

// --- accounts ---

func (s *Store) ListAccountsByBank(ctx context.Context, bankID int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.accounts, func(a domain.Account) bool { return a.BankID == bankID }), nil
}

func (s *Store) findAccountLocked(bankID, accountID int64) (domain.Account, bool) {
	a, ok := s.accounts[accountID]
	if !ok || a.BankID != bankID {
		return domain.Account{}, false
	}
	return a, true
}

func (s *Store) FindAccountByBankAndID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.findAccountLocked(bankID, accountID)
	if !ok {
		return nil, apperrors.NotFound("Account")
	}
	return &a, nil
}

func (s *Store) accountNameTaken(name string, exceptID int64) bool {
	for id, a := range s.accounts {
		if id != exceptID && a.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banks[account.BankID]; !ok {
		return nil, apperrors.NotFound("Bank")
	}
	if s.accountNameTaken(account.Name, 0) {
		return nil, errNameTaken()
	}
	s.nextAccountID++
	account.AccountID = s.nextAccountID
	s.accounts[account.AccountID] = account
	return &account, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.findAccountLocked(account.BankID, account.AccountID)
	if !ok {
		return apperrors.NotFound("Account")
	}
	if s.accountNameTaken(account.Name, account.AccountID) {
		return errNameTaken()
	}
	existing.Name = account.Name
	existing.UpdatedAt = account.UpdatedAt
	s.accounts[account.AccountID] = existing
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, bankID int64, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findAccountLocked(bankID, accountID); !ok {
		return apperrors.NotFound("Account")
	}
	for _, t := range s.transactions {
		if t.AccountID == accountID {
			return fmt.Errorf("%w: account %d still has transactions", apperrors.ErrHasDependents, accountID)
		}
	}
	delete(s.accounts, accountID)
	return nil
}

func (s *Store) SumTransactionAmounts(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, t := range s.transactions {
		if t.BankID == bankID && t.AccountID == accountID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// --- transactions ---

func (s *Store) ListTransactionsByAccount(ctx context.Context, bankID int64, accountID int64) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.transactions, func(t domain.Transaction) bool {
		return t.BankID == bankID && t.AccountID == accountID
	}), nil
}

func (s *Store) findTransactionLocked(bankID, accountID, transactionID int64) (domain.Transaction, bool) {
	t, ok := s.transactions[transactionID]
	if !ok || t.BankID != bankID || t.AccountID != accountID {
		return domain.Transaction{}, false
	}
	return t, true
}

func (s *Store) FindTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.findTransactionLocked(bankID, accountID, transactionID)
	if !ok {
		return nil, apperrors.NotFound("Transaction")
	}
	return &t, nil
}

func (s *Store) FindTransactionsByIDs(ctx context.Context, transactionIDs []int64) (map[int64]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[int64]domain.Transaction, len(transactionIDs))
	for _, id := range transactionIDs {
		if t, ok := s.transactions[id]; ok {
			found[id] = t
		}
	}
	return found, nil
}

func (s *Store) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findRecentMatchesLocked(amount, windowStart, windowEnd), nil
}

func (s *Store) findRecentMatchesLocked(amount decimal.Decimal, windowStart, windowEnd time.Time) []domain.MatchGroup {
	var groups []domain.MatchGroup
	for _, t := range sortedValues(s.transactions, nil) {
		if !t.Amount.Equal(amount) || t.CreatedAt.Before(windowStart) || t.CreatedAt.After(windowEnd) {
			continue
		}
		key := domain.KeyOf(t)
		idx := slices.IndexFunc(groups, func(g domain.MatchGroup) bool { return g.Key().Matches(key) })
		if idx < 0 {
			groups = append(groups, domain.MatchGroup{Amount: t.Amount, Description: t.Description})
			idx = len(groups) - 1
		}
		groups[idx].IDs = append(groups[idx].IDs, t.TransactionID)
	}
	return groups
}

// lockedFinder reads the store while the caller already holds its write lock.
type lockedFinder struct {
	s *Store
}

func (f lockedFinder) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	return f.s.findRecentMatchesLocked(amount, windowStart, windowEnd), nil
}

func (s *Store) CreateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findAccountLocked(txn.BankID, txn.AccountID); !ok {
		return nil, apperrors.NotFound("Account")
	}

	txn.TransactionID = 0
	group, err := resolve(ctx, lockedFinder{s: s}, txn)
	if err != nil {
		return nil, err
	}
	txn.DuplicateGroup = group

	s.nextTransactionID++
	txn.TransactionID = s.nextTransactionID
	s.transactions[txn.TransactionID] = txn
	return &txn, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.findTransactionLocked(txn.BankID, txn.AccountID, txn.TransactionID)
	if !ok {
		return nil, apperrors.NotFound("Transaction")
	}
	existing.Amount = txn.Amount
	existing.Description = txn.Description
	existing.Date = txn.Date
	existing.UpdatedAt = txn.UpdatedAt

	group, err := resolve(ctx, lockedFinder{s: s}, existing)
	if err != nil {
		return nil, err
	}
	existing.DuplicateGroup = group
	s.transactions[existing.TransactionID] = existing
	return &existing, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findTransactionLocked(bankID, accountID, transactionID); !ok {
		return apperrors.NotFound("Transaction")
	}
	delete(s.transactions, transactionID)
	return nil
}
