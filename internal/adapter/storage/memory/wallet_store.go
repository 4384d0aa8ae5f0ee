package memory

import (
	"context"
	"sync"
	"time"

	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletStore is the in-process implementation of ports.WalletStore.
// All ledger state lives for the process lifetime only.
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

// NewWalletStore creates an empty wallet table.
func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[string]*domain.Wallet)}
}

// Create returns the existing wallet if present, otherwise seeds a new one.
func (s *WalletStore) Create(_ context.Context, id string, seed decimal.Decimal) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.wallets[id]; ok {
		return copyWallet(w), nil
	}

	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:        id,
		Balance:   seed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.wallets[id] = w
	return copyWallet(w), nil
}

// Get returns a copy of the wallet, or (nil, nil) when absent.
func (s *WalletStore) Get(_ context.Context, id string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return nil, nil
	}
	return copyWallet(w), nil
}

// Debit atomically checks and decrements the balance. The check and the
// write happen under one lock so the balance can never go negative, no
// matter how many callers race.
func (s *WalletStore) Debit(_ context.Context, id string, amount decimal.Decimal) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if w.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}

	w.Balance = w.Balance.Sub(amount)
	w.UpdatedAt = time.Now().UTC()
	return copyWallet(w), nil
}

func copyWallet(w *domain.Wallet) *domain.Wallet {
	cp := *w
	return &cp
}
