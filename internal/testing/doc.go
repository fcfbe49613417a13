// Package testing provides test infrastructure for sale engine testing.
//
// It offers a deterministic in-memory environment wiring the token
// ledger, the payment book and the sale engine together, so tests can
// exercise full listing and purchase flows without touching disk.
//
// # Basic Usage
//
//	func TestPurchase(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//
//	    alice := testing.NewAccount("alice")
//	    bob := testing.NewAccount("bob")
//
//	    id := env.ListSale(alice, "Curve Asset", "CRV", testing.Units(1000))
//
//	    out := env.Purchase(id, bob, testing.Units(1))
//	    testing.RequireSuccess(t, out.Result)
//	    testing.RequireTokenBalance(t, env, id, bob, out.TokensTransferred)
//	}
//
// # Accounts
//
// Accounts are derived deterministically from their name, so the same
// name always produces the same account across runs.
//
// # Amounts
//
// Units(n) is n whole tokens in base units (1e18 per token); Raw parses
// a decimal base-unit string.
package testing
