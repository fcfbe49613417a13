package di

import (
	"context"

	"github.com/curvemint/curved/internal/config"
	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
	grpcserver "github.com/curvemint/curved/internal/grpc"
	"github.com/curvemint/curved/internal/rpc"
	"github.com/curvemint/curved/internal/rpc/handlers"
	"github.com/curvemint/curved/internal/storage/eventdb"
	"github.com/curvemint/curved/internal/storage/salestore"
)

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	version   string
}

// NewProvider creates a new service provider.
func NewProvider(container *Container, cfg *config.Config, version string) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
		version:   version,
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() error {
	p.container.Register(ServiceConfig, p.config)

	p.registerStorageBuilders()
	p.registerSaleBuilders()
	p.registerServerBuilders()

	return nil
}

// registerStorageBuilders registers storage service builders.
func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceSaleStore, func(c *Container) (interface{}, error) {
		return salestore.NewWithConfig(p.config.StoreOptions())
	})

	p.container.RegisterBuilder(ServiceEventDB, func(c *Container) (interface{}, error) {
		cfg := p.config.EventDBConfig()
		if cfg == nil {
			return (*eventdb.Store)(nil), nil
		}

		store, err := eventdb.New(cfg, eventdb.NewDefaultLogger())
		if err != nil {
			return nil, err
		}
		if err := store.Open(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	})
}

// registerSaleBuilders registers the sale engine builders.
func (p *Provider) registerSaleBuilders() {
	p.container.RegisterBuilder(ServiceTokenLedger, func(c *Container) (interface{}, error) {
		return token.NewLedger(), nil
	})

	p.container.RegisterBuilder(ServicePayments, func(c *Container) (interface{}, error) {
		return token.NewPaymentBook(), nil
	})

	p.container.RegisterBuilder(ServiceEngine, func(c *Container) (interface{}, error) {
		owner, err := p.config.OwnerAccount()
		if err != nil {
			return nil, err
		}
		pool, err := p.config.PoolAccount()
		if err != nil {
			return nil, err
		}

		store, err := c.Get(ServiceSaleStore)
		if err != nil {
			return nil, err
		}
		ledger, err := c.Get(ServiceTokenLedger)
		if err != nil {
			return nil, err
		}
		payments, err := c.Get(ServicePayments)
		if err != nil {
			return nil, err
		}

		cfg := sale.Config{
			View:     store.(*salestore.Store),
			Tokens:   ledger.(*token.Ledger),
			Payments: payments.(*token.PaymentBook),
			Issuer:   ledger.(*token.Ledger),
			Owner:    owner,
			Pool:     pool,
		}
		if events := p.eventStore(c); events != nil {
			cfg.Events = events
		}

		engine := sale.NewEngine(cfg)

		// Seed the configured fee rate on a fresh store.
		if p.config.Platform.FeeBps > 0 {
			current, err := engine.CurrentFee()
			if err != nil {
				return nil, err
			}
			if current == 0 {
				engine.SetFee(owner, p.config.Platform.FeeBps)
			}
		}

		return engine, nil
	})

	p.container.RegisterBuilder(ServiceDistributor, func(c *Container) (interface{}, error) {
		engine, err := c.Get(ServiceEngine)
		if err != nil {
			return nil, err
		}
		return sale.NewDistributor(engine.(*sale.Engine)), nil
	})
}

// registerServerBuilders registers the RPC and gRPC server builders.
func (p *Provider) registerServerBuilders() {
	p.container.RegisterBuilder(ServiceRPCServer, func(c *Container) (interface{}, error) {
		dist, err := c.Get(ServiceDistributor)
		if err != nil {
			return nil, err
		}
		ledger, err := c.Get(ServiceTokenLedger)
		if err != nil {
			return nil, err
		}

		services := &handlers.Services{
			Sales:   dist.(*sale.Distributor),
			Tokens:  ledger.(*token.Ledger),
			Version: p.version,
		}
		if events := p.eventStore(c); events != nil {
			services.Events = events
		}

		return rpc.NewServer(rpc.Config{
			Addr:     p.config.RPC.Addr,
			Timeout:  p.config.RPCTimeout(),
			AdminIPs: p.config.RPC.AdminIPs,
		}, services), nil
	})

	p.container.RegisterBuilder(ServiceGRPCServer, func(c *Container) (interface{}, error) {
		if !p.config.GRPC.Enabled {
			return (*grpcserver.Server)(nil), nil
		}

		dist, err := c.Get(ServiceDistributor)
		if err != nil {
			return nil, err
		}
		ledger, err := c.Get(ServiceTokenLedger)
		if err != nil {
			return nil, err
		}

		cfg := grpcserver.DefaultServerConfig()
		cfg.Address = p.config.GRPC.Addr
		return grpcserver.NewServer(cfg, dist.(*sale.Distributor), ledger.(*token.Ledger))
	})
}

// eventStore resolves the event store, treating a disabled journal as
// absent rather than as a typed nil.
func (p *Provider) eventStore(c *Container) *eventdb.Store {
	events, err := c.Get(ServiceEventDB)
	if err != nil {
		return nil
	}
	store, ok := events.(*eventdb.Store)
	if !ok || store == nil {
		return nil
	}
	return store
}

// GetDistributor returns the serialized sale engine from the container.
func (p *Provider) GetDistributor() (*sale.Distributor, error) {
	dist, err := p.container.Get(ServiceDistributor)
	if err != nil {
		return nil, err
	}
	return dist.(*sale.Distributor), nil
}

// GetRPCServer returns the HTTP JSON-RPC server from the container.
func (p *Provider) GetRPCServer() (*rpc.Server, error) {
	srv, err := p.container.Get(ServiceRPCServer)
	if err != nil {
		return nil, err
	}
	return srv.(*rpc.Server), nil
}

// GetGRPCServer returns the gRPC server from the container.
// Returns nil when the gRPC server is disabled.
func (p *Provider) GetGRPCServer() (*grpcserver.Server, error) {
	srv, err := p.container.Get(ServiceGRPCServer)
	if err != nil {
		return nil, err
	}
	return srv.(*grpcserver.Server), nil
}

// GetSaleStore returns the persistent sale store from the container.
func (p *Provider) GetSaleStore() (*salestore.Store, error) {
	store, err := p.container.Get(ServiceSaleStore)
	if err != nil {
		return nil, err
	}
	return store.(*salestore.Store), nil
}

// GetEventStore returns the event journal, or nil when disabled.
func (p *Provider) GetEventStore() *eventdb.Store {
	return p.eventStore(p.container)
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}
