package testing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curvemint/curved/internal/core/sale"
)

// RequireSuccess fails the test unless the result is success.
func RequireSuccess(t *testing.T, result sale.Result) {
	t.Helper()
	require.True(t, result.IsSuccess(), "expected success, got %s: %s", result, result.Message())
}

// RequireResult fails the test unless the result matches.
func RequireResult(t *testing.T, want, got sale.Result) {
	t.Helper()
	require.Equal(t, want, got, "expected %s, got %s", want, got)
}

// RequireTokenBalance fails the test unless the holder's balance equals
// the expected amount.
func RequireTokenBalance(t *testing.T, env *TestEnv, id sale.SaleID, holder sale.AccountID, want *big.Int) {
	t.Helper()
	got := env.TokenBalance(id, holder)
	require.Zero(t, want.Cmp(got), "expected token balance %s, got %s", want, got)
}

// RequireProceeds fails the test unless the creator's withdrawable
// balance equals the expected amount.
func RequireProceeds(t *testing.T, env *TestEnv, creator sale.AccountID, want *big.Int) {
	t.Helper()
	got := env.Proceeds(creator)
	require.Zero(t, want.Cmp(got), "expected proceeds %s, got %s", want, got)
}
