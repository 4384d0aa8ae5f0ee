package service

import (
	"context"
	"errors"
	"fmt"

	"solar-ledger/internal/core/domain"
	"solar-ledger/internal/core/ports"
	"solar-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService on top of a WalletStore.
type LedgerServiceImpl struct {
	wallets ports.WalletStore
	seed    decimal.Decimal
	log     zerolog.Logger
}

// NewLedgerService creates a ledger service. seed is the balance credited to
// every implicitly created wallet.
func NewLedgerService(wallets ports.WalletStore, seed decimal.Decimal, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{wallets: wallets, seed: seed, log: log}
}

// CreateWallet returns the existing wallet or creates one with the seed balance.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	if id == "" {
		return nil, apperror.Validation("wallet id must not be empty")
	}

	wallet, err := s.wallets.Create(ctx, id, s.seed)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Debug().Str("wallet_id", id).Msg("wallet ensured")
	return wallet, nil
}

// Transfer debits amount from the wallet. Policy: a transfer against a
// missing wallet fails as insufficient balance, not as not-found; absence
// and emptiness are indistinguishable to the spender.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, id string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.wallets.Debit(ctx, id, amount)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) || errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, apperror.ErrInsufficientBalance()
		}
		return nil, apperror.InternalError(fmt.Errorf("debit wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", id).
		Str("amount", amount.String()).
		Str("balance", wallet.Balance.String()).
		Msg("transfer processed")

	return wallet, nil
}

// GetWallet is a pure lookup; (nil, nil) when the wallet does not exist.
func (s *LedgerServiceImpl) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	wallet, err := s.wallets.Get(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}
