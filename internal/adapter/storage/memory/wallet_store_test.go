package memory

import (
	"context"
	"sync"
	"testing"

	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStore_Create_Idempotent(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()
	seed := decimal.NewFromFloat(1.0)

	w1, err := store.Create(ctx, "w1", seed)
	require.NoError(t, err)
	assert.True(t, w1.Balance.Equal(seed))

	// Debit, then create again: the existing wallet must survive untouched.
	_, err = store.Debit(ctx, "w1", decimal.NewFromFloat(0.25))
	require.NoError(t, err)

	w2, err := store.Create(ctx, "w1", seed)
	require.NoError(t, err)
	assert.True(t, w2.Balance.Equal(decimal.NewFromFloat(0.75)))
}

func TestWalletStore_Get_Missing(t *testing.T) {
	store := NewWalletStore()
	w, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestWalletStore_Debit(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "w1", decimal.NewFromFloat(1.0))
	require.NoError(t, err)

	w, err := store.Debit(ctx, "w1", decimal.NewFromFloat(0.5))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromFloat(0.5)))

	// Overdraft rejected, balance untouched.
	_, err = store.Debit(ctx, "w1", decimal.NewFromFloat(1.0))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	w, err = store.Get(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromFloat(0.5)))
}

func TestWalletStore_Debit_MissingWallet(t *testing.T) {
	store := NewWalletStore()
	_, err := store.Debit(context.Background(), "ghost", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletStore_Debit_Concurrent_NeverNegative(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "w1", decimal.NewFromInt(100))
	require.NoError(t, err)

	// 200 goroutines each try to spend 1; only 100 can succeed.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Debit(ctx, "w1", decimal.NewFromInt(1)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, succeeded)

	w, err := store.Get(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero(), "final balance must be exactly zero, got %s", w.Balance)
	assert.False(t, w.Balance.IsNegative())
}

func TestWalletStore_Get_ReturnsCopy(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "w1", decimal.NewFromInt(5))
	require.NoError(t, err)

	w, _ := store.Get(ctx, "w1")
	w.Balance = decimal.NewFromInt(-999)

	fresh, _ := store.Get(ctx, "w1")
	assert.True(t, fresh.Balance.Equal(decimal.NewFromInt(5)))
}
