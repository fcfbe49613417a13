package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsAreDeterministic(t *testing.T) {
	assert.Equal(t, NewAccount("alice"), NewAccount("alice"))
	assert.NotEqual(t, NewAccount("alice"), NewAccount("bob"))
	assert.NotEqual(t, OwnerAccount(), PoolAccount())
}

func TestEnvPurchaseFlow(t *testing.T) {
	env := NewTestEnv(t)

	alice := NewAccount("alice")
	bob := NewAccount("bob")

	id := env.ListSale(alice, "Curve Asset", "CRV", Units(1000))

	out := env.Purchase(id, bob, Units(1))
	RequireSuccess(t, out.Result)
	RequireTokenBalance(t, env, id, bob, out.TokensTransferred)
	RequireProceeds(t, env, alice, out.EffectivePayment)
}

func TestEnvFeeSplit(t *testing.T) {
	env := NewTestEnv(t)
	env.SetFee(250)

	alice := NewAccount("alice")
	id := env.ListSale(alice, "Curve Asset", "CRV", Units(1000))

	out := env.Purchase(id, NewAccount("bob"), Units(1))
	RequireSuccess(t, out.Result)
	require.Equal(t, 1, out.Fee.Sign())

	// Proceeds plus fee account for the full effective payment.
	total := env.Proceeds(alice)
	total.Add(total, out.Fee)
	assert.Zero(t, total.Cmp(out.EffectivePayment))
}

func TestEnvStatePersistsAcrossEngineReads(t *testing.T) {
	env := NewTestEnv(t)

	id := env.ListSale(NewAccount("alice"), "Curve Asset", "CRV", Units(10))

	st, ok, err := env.Sales.SaleInfo(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, DefaultPriceInit.Cmp(st.CurrentPrice))
}
