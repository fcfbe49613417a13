package cli

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/curvemint/curved/internal/config"
	"github.com/curvemint/curved/internal/di"
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the sale daemon",
	Long: `Start the curved daemon which provides:
- HTTP JSON-RPC API for listing sales, purchasing and withdrawals
- Optional gRPC query service
- Persistent sale state with a pluggable key-value backend
- Optional relational event journal

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	container := di.New()
	provider := di.NewProvider(container, cfg, Version)
	if err := provider.RegisterAll(); err != nil {
		return err
	}

	store, err := provider.GetSaleStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("failed to close sale store: %v", err)
		}
	}()

	if events := provider.GetEventStore(); events != nil {
		defer func() {
			if err := events.Close(); err != nil {
				log.Printf("failed to close event store: %v", err)
			}
		}()
	}

	rpcServer, err := provider.GetRPCServer()
	if err != nil {
		return err
	}
	grpcServer, err := provider.GetGRPCServer()
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("curved %s\n", Version)
		fmt.Printf("  sale store:    %s\n", cfg.StoreOptions())
		fmt.Printf("  JSON-RPC:      http://%s/\n", cfg.RPC.Addr)
		if grpcServer != nil {
			fmt.Printf("  gRPC:          %s\n", cfg.GRPC.Addr)
		}
		if cfg.Events.Enabled {
			fmt.Printf("  event journal: %s\n", cfg.Events.Driver)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return rpcServer.ListenAndServe(ctx)
	})
	if grpcServer != nil {
		group.Go(func() error {
			return grpcServer.Run(ctx)
		})
	}

	return group.Wait()
}
