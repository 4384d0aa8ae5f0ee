package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by stores; services map them to apperror values.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Wallet is a unit-of-account balance owned by a single holder.
// Balance is never negative; a debit either fully succeeds or is rejected.
type Wallet struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
