package di

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvemint/curved/internal/config"
	"github.com/curvemint/curved/internal/core/sale"
)

func mustAmount(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad amount: " + s)
	}
	return n
}

func testConfig() *config.Config {
	return &config.Config{
		Platform: config.PlatformConfig{
			Owner:  "0x00000000000000000000000000000000000000aa",
			Pool:   "0x00000000000000000000000000000000000000bb",
			FeeBps: 250,
		},
		Store: config.StoreConfig{
			Backend:    "memory",
			CacheSize:  100,
			Compressor: "none",
		},
		RPC: config.RPCConfig{
			Addr:           "127.0.0.1:5005",
			TimeoutSeconds: 30,
		},
	}
}

func TestProviderWiresEngine(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	dist, err := provider.GetDistributor()
	require.NoError(t, err)

	// The configured fee rate is seeded into a fresh store.
	bps, err := dist.CurrentFee()
	require.NoError(t, err)
	assert.Equal(t, uint32(250), bps)
}

func TestProviderCachesServices(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	first, err := provider.GetDistributor()
	require.NoError(t, err)
	second, err := provider.GetDistributor()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestProviderRPCServer(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	srv, err := provider.GetRPCServer()
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestProviderGRPCDisabled(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	srv, err := provider.GetGRPCServer()
	require.NoError(t, err)
	assert.Nil(t, srv)
}

func TestProviderEventStoreDisabled(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	assert.Nil(t, provider.GetEventStore())
}

func TestContainerUnknownService(t *testing.T) {
	container := New()
	_, err := container.Get("nonsense")
	assert.Error(t, err)
}

func TestEngineOperatesThroughProvider(t *testing.T) {
	container := New()
	provider := NewProvider(container, testConfig(), "test")
	require.NoError(t, provider.RegisterAll())

	dist, err := provider.GetDistributor()
	require.NoError(t, err)

	out := dist.List(sale.ListRequest{
		Receiver:      sale.AccountID{0x02},
		Name:          "Curve Asset",
		Symbol:        "CRV",
		MaxSupply:     mustAmount("1000000000000000000000"),
		PriceInit:     mustAmount("1000000000000000"),
		PriceIncrease: mustAmount("1000000000000"),
	})
	require.True(t, out.Result.IsSuccess())

	purchase := dist.Purchase(out.SaleID, sale.AccountID{0x01}, mustAmount("1000000000000000000"))
	assert.True(t, purchase.Result.IsSuccess())
	assert.NotNil(t, purchase.Fee)
	assert.Equal(t, 1, purchase.Fee.Sign())
}
