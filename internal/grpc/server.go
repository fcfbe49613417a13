package grpc

import (
	"context"
	"errors"
	"math/big"
	"net"
	"sync"

	"google.golang.org/grpc"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
)

// SaleServiceInterface defines the sale operations needed by gRPC handlers.
// This interface is implemented by *sale.Distributor.
type SaleServiceInterface interface {
	// SaleInfo returns the persisted state of one sale.
	SaleInfo(id sale.SaleID) (sale.SaleState, bool, error)

	// CreatorProceeds returns the withdrawable balance of a creator.
	CreatorProceeds(account sale.AccountID) (*big.Int, error)

	// PlatformProceeds returns the accumulated platform fee balance.
	PlatformProceeds() (*big.Int, error)

	// CurrentFee returns the platform fee rate in basis points.
	CurrentFee() (uint32, error)
}

// TokenServiceInterface defines the token operations needed by gRPC handlers.
// This interface is implemented by *token.Ledger.
type TokenServiceInterface interface {
	// BalanceOf returns the token balance of one holder.
	BalanceOf(tokenID sale.SaleID, holder sale.AccountID) (*big.Int, error)

	// Info returns the metadata of one issued asset.
	Info(tokenID sale.SaleID) (token.AssetInfo, error)
}

// Server represents the gRPC server for sale queries.
type Server struct {
	mu sync.RWMutex

	// grpcServer is the underlying gRPC server
	grpcServer *grpc.Server

	// sales provides access to sale state
	sales SaleServiceInterface

	// tokens provides access to the token ledger
	tokens TokenServiceInterface

	// config holds the server configuration
	config *ServerConfig

	// listener is the network listener
	listener net.Listener

	// running indicates if the server is currently running
	running bool
}

// NewServer creates a new gRPC server with the given configuration.
func NewServer(cfg *ServerConfig, sales SaleServiceInterface, tokens TokenServiceInterface) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.UnaryInterceptor(UnaryServerInterceptor()),
	}

	return &Server{
		grpcServer: grpc.NewServer(opts...),
		sales:      sales,
		tokens:     tokens,
		config:     cfg,
	}, nil
}

// Start starts the gRPC server and begins accepting connections.
// This method blocks until the server is stopped or an error occurs.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	return s.grpcServer.Serve(listener)
}

// Run starts the server and stops it gracefully when the context is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Stop gracefully stops the gRPC server.
// It stops accepting new connections and waits for existing connections to complete.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.grpcServer.GracefulStop()
	s.running = false
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GetGRPCServer returns the underlying grpc.Server.
// This can be used to register additional services.
func (s *Server) GetGRPCServer() *grpc.Server {
	return s.grpcServer
}

// UnaryServerInterceptor creates an interceptor for logging and metrics.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		return handler(ctx, req)
	}
}
